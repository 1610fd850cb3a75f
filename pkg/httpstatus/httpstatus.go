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

// Package httpstatus maps HTTP status codes to human-readable messages.
package httpstatus

import "fmt"

// Status describes an HTTP status code.
type Status struct {
	// Code is the numeric status code
	Code int
	// Reason is the short reason phrase (e.g., "Not Found")
	Reason string
	// Description is a longer explanation suitable for error messages
	Description string
}

// String returns "<code> <reason> - <description>".
func (s Status) String() string {
	return fmt.Sprintf("%d %s - %s", s.Code, s.Reason, s.Description)
}

var catalog = map[int][2]string{
	100: {"Continue", "Request received, please continue"},
	101: {"Switching Protocols", "Switching to new protocol; obey Upgrade header"},
	102: {"Processing", "Request received, server is still processing"},
	103: {"Early Hints", "Preliminary headers sent before the final response"},

	200: {"OK", "Request fulfilled, document follows"},
	201: {"Created", "Document created, URL follows"},
	202: {"Accepted", "Request accepted, processing continues off-line"},
	203: {"Non-Authoritative Information", "Request fulfilled from cache"},
	204: {"No Content", "Request fulfilled, nothing follows"},
	205: {"Reset Content", "Clear input form for further input."},
	206: {"Partial Content", "Partial content follows."},
	207: {"Multi-Status", "Status for multiple independent operations follows"},
	208: {"Already Reported", "Members already enumerated in a previous reply"},
	226: {"IM Used", "Request fulfilled, instance manipulations applied"},

	300: {"Multiple Choices", "Object has several resources -- see URI list"},
	301: {"Moved Permanently", "Object moved permanently -- see URI list"},
	302: {"Found", "Object moved temporarily -- see URI list"},
	303: {"See Other", "Object moved -- see Method and URL list"},
	304: {"Not Modified", "Document has not changed since given time"},
	305: {"Use Proxy", "You must use proxy specified in Location to access this resource."},
	307: {"Temporary Redirect", "Object moved temporarily -- see URI list"},
	308: {"Permanent Redirect", "Object moved permanently -- see URI list"},

	400: {"Bad Request", "Bad request syntax or unsupported method"},
	401: {"Unauthorized", "No permission -- see authorization schemes"},
	402: {"Payment Required", "No payment -- see charging schemes"},
	403: {"Forbidden", "Request forbidden -- authorization will not help"},
	404: {"Not Found", "Nothing matches the given URI"},
	405: {"Method Not Allowed", "Specified method is invalid for this server."},
	406: {"Not Acceptable", "URI not available in preferred format."},
	407: {"Proxy Authentication Required", "You must authenticate with this proxy before proceeding."},
	408: {"Request Timeout", "Request timed out; try again later."},
	409: {"Conflict", "Request conflict."},
	410: {"Gone", "URI no longer exists and has been permanently removed."},
	411: {"Length Required", "Client must specify Content-Length."},
	412: {"Precondition Failed", "Precondition in headers is false."},
	413: {"Request Entity Too Large", "Entity is too large."},
	414: {"Request-URI Too Long", "URI is too long."},
	415: {"Unsupported Media Type", "Entity body in unsupported format."},
	416: {"Requested Range Not Satisfiable", "Cannot satisfy request range."},
	417: {"Expectation Failed", "Expect condition could not be satisfied."},
	421: {"Misdirected Request", "Server is not able to produce a response for this URI"},
	422: {"Unprocessable Entity", "Request well-formed but semantically invalid"},
	423: {"Locked", "Resource is locked"},
	424: {"Failed Dependency", "Request depended on another request that failed"},
	425: {"Too Early", "Server unwilling to process a request that might be replayed"},
	426: {"Upgrade Required", "Client must switch to a different protocol"},
	428: {"Precondition Required", "Request must be conditional"},
	429: {"Too Many Requests", "Too many requests in a given time; try again later"},
	431: {"Request Header Fields Too Large", "Header fields are too large"},
	451: {"Unavailable For Legal Reasons", "Resource withheld for legal reasons"},

	500: {"Internal Server Error", "Server got itself in trouble"},
	501: {"Not Implemented", "Server does not support this operation"},
	502: {"Bad Gateway", "Invalid responses from another server/proxy."},
	503: {"Service Unavailable", "The server cannot process the request due to a high load"},
	504: {"Gateway Timeout", "The gateway server did not receive a timely response"},
	505: {"HTTP Version Not Supported", "Cannot fulfill request."},
	506: {"Variant Also Negotiates", "Server has an internal configuration error"},
	507: {"Insufficient Storage", "Server is unable to store the representation"},
	508: {"Loop Detected", "Server detected an infinite loop while processing"},
	510: {"Not Extended", "Further extensions to the request are required"},
	511: {"Network Authentication Required", "Client needs to authenticate to gain network access"},
}

// Lookup returns the catalog entry for code.
func Lookup(code int) (Status, bool) {
	entry, ok := catalog[code]
	if !ok {
		return Status{Code: code}, false
	}
	return Status{Code: code, Reason: entry[0], Description: entry[1]}, true
}

// Format returns a message describing code. Codes missing from the
// catalog produce "<code> Unknown status code".
func Format(code int) string {
	status, ok := Lookup(code)
	if !ok {
		return fmt.Sprintf("%d Unknown status code", code)
	}
	return status.String()
}
