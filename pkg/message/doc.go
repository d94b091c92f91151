// Package message turns validation failures and interaction flags into the
// single message shown next to a field.
//
// Resolution walks a fixed priority list and stops at the first match:
//
//  1. the field is dirty and has a required- or format-class failure
//  2. the field has any failure and is dirty (or, when the policy reveals
//     required failures on touch, touched with a required failure)
//  3. a mismatch rule of the group involving the field fails and the rule's
//     dependent (confirmation) field is touched
//  4. another group rule involving the field fails and the catalog holds a
//     code-specific message for it
//  5. no message
//
// The resolver is pure: it reads the state handed to it and keeps none of
// its own, so calling it twice on unchanged state yields the same Message.
package message
