// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scttfrdmn/cyclesubmit/pkg/cycleserver"
	"golang.org/x/term"
)

// prompter asks for missing credentials.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// readPassword reads a password without echo; nil falls back to in
	readPassword func() (string, error)
}

func newTerminalPrompter() *prompter {
	p := &prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readPassword = func() (string, error) {
			data, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			return string(data), err
		}
	}

	return p
}

// credentials fills in whichever of user and pass is empty.
func (p *prompter) credentials(user, pass string) (cycleserver.Credentials, error) {
	var err error
	if user == "" {
		user, err = p.ask("Username: ", p.readLine)
		if err != nil {
			return cycleserver.Credentials{}, fmt.Errorf("failed to read username: %w", err)
		}
	}

	if pass == "" {
		read := p.readPassword
		if read == nil {
			read = p.readLine
		}
		pass, err = p.ask("Password: ", read)
		if err != nil {
			return cycleserver.Credentials{}, fmt.Errorf("failed to read password: %w", err)
		}
	}

	return cycleserver.Credentials{Username: user, Password: pass}, nil
}

// ask repeats the prompt until read returns a non-empty answer.
func (p *prompter) ask(prompt string, read func() (string, error)) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		answer, err := read()
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}
