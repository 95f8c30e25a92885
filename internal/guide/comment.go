package guide

import "regexp"

// commentBody matches what remains of a line after its last tab stop when
// that line is part of a /* ... */ block comment:
//
//	/* opening text
//	*
//	* body text
//	*/ trailing text
//	* text */
//
// Text before a closing */ must itself start with *, so "foo(); */" is code.
var commentBody = regexp.MustCompile(`^[\t\p{Zs}]*(?:/\*.*|\*|\*[\t\p{Zs}].*|\*/.*|(?:\*.*)?\*/)$`)

// isCommentBody reports whether rest looks like block comment content.
func isCommentBody(rest string) bool {
	return commentBody.MatchString(rest)
}
