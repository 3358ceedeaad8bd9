// Package protocol defines the datagram wire format shared by the udpmail
// server and client: command verbs, the field delimiter, and the literal
// reply texts that clients match by string comparison.
//
// A request is a single UTF-8 datagram of the form
//
//	VERB:field1:field2:...
//
// Fields are split with a verb-specific bound so that the final field (for
// example a free-text message body) keeps any embedded delimiters.
package protocol

import "strings"

// Delimiter separates the verb and fields inside a datagram. Usernames must
// not contain it.
const Delimiter = ":"

// Command verbs.
const (
	VerbRegister     = "REGISTER"
	VerbLogin        = "LOGIN"
	VerbSend         = "SEND"
	VerbList         = "LIST"
	VerbGetEmail     = "GET_EMAIL"
	VerbLogout       = "LOGOUT"
	VerbListAccounts = "LIST_ACCOUNTS"
)

// Reply literals. Clients distinguish outcomes by exact prefix/content, so
// these strings are part of the wire contract.
const (
	ReplyRegisterOK     = "Registration successful!"
	ReplyUserExists     = "USER_EXISTS"
	ReplyLoginFailed    = "LOGIN_FAILED"
	ReplyNoSuchUser     = "NO_SUCH_USER"
	ReplyNoSuchEmail    = "NO_SUCH_EMAIL"
	ReplyLogoutOK       = "Logged out."
	ReplyUnknownCommand = "UNKNOWN_COMMAND"

	PrefixEmailList   = "EMAIL_LIST:"
	PrefixAccountList = "ACCOUNT_LIST:"
	PrefixNewEmail    = "NEW_EMAIL:"
	PrefixError       = "ERROR:"
)

// MaxDatagramSize is the fixed receive buffer size on both sides. Payloads
// that would exceed it are not a supported case.
const MaxDatagramSize = 4096

// Request is a parsed inbound datagram: the verb and the unsplit remainder.
type Request struct {
	Verb string
	Rest string
}

// Parse splits a raw datagram into its verb and the remainder after the first
// delimiter. The remainder is empty for verbs that carry no fields.
func Parse(raw string) Request {
	verb, rest, _ := strings.Cut(raw, Delimiter)
	return Request{Verb: verb, Rest: rest}
}

// Fields splits the remainder into exactly n fields. The last field keeps any
// embedded delimiters. ok is false when fewer than n fields are present.
func (r Request) Fields(n int) (fields []string, ok bool) {
	if r.Rest == "" && n > 0 {
		return nil, false
	}
	fields = strings.SplitN(r.Rest, Delimiter, n)
	if len(fields) < n {
		return nil, false
	}
	return fields, true
}

// JoinEmailList renders the EMAIL_LIST reply. Every identifier is followed by
// a trailing comma, matching what deployed clients parse.
func JoinEmailList(ids []string) string {
	var sb strings.Builder
	sb.WriteString(PrefixEmailList)
	for _, id := range ids {
		sb.WriteString(id)
		sb.WriteString(",")
	}
	return sb.String()
}

// SplitEmailList is the client-side inverse of JoinEmailList. Empty entries
// produced by the trailing comma are dropped.
func SplitEmailList(reply string) []string {
	body := strings.TrimPrefix(reply, PrefixEmailList)
	parts := strings.Split(body, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// JoinAccountList renders the LIST_ACCOUNTS reply.
func JoinAccountList(usernames []string) string {
	return PrefixAccountList + strings.Join(usernames, ",")
}
