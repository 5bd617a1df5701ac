package model

import "net/url"

// Item is one node of the content tree as served by this API.
//
// Kids carries the raw child ids in shallow views. Comments carries the
// resolved subtrees in the deep view; the two are never both set on output.
// A zero ID marks a deleted or never-created item.
type Item struct {
	ID          int    `json:"id,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
	Type        string `json:"type,omitempty"`
	By          string `json:"by,omitempty"`
	Time        int64  `json:"time,omitempty"`
	Text        string `json:"text,omitempty"`
	Dead        bool   `json:"dead,omitempty"`
	Parent      int    `json:"parent,omitempty"`
	Poll        int    `json:"poll,omitempty"`
	Kids        []int  `json:"kids,omitempty"`
	URL         string `json:"url,omitempty"`
	Score       int    `json:"score,omitempty"`
	Title       string `json:"title,omitempty"`
	Parts       []int  `json:"parts,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
	Comments    []Item `json:"comments,omitempty"`
}

// Exists reports whether the upstream item actually exists. Upstream answers
// deleted ids with null, which decodes to a zero Item.
func (it Item) Exists() bool {
	return it.ID != 0
}

// User is an account record. The identity is the handle, not a number.
type User struct {
	ID        string `json:"id,omitempty"`
	Created   int64  `json:"created,omitempty"`
	Karma     int    `json:"karma,omitempty"`
	About     string `json:"about,omitempty"`
	Delay     int    `json:"delay,omitempty"`
	Submitted []int  `json:"submitted,omitempty"`
}

// Exists reports whether the user record was found upstream.
func (u User) Exists() bool {
	return u.ID != ""
}

// UserDetail is the detailed user view: the submitted id list is replaced by
// the resolved shallow items under the same key. The outer Submitted field
// shadows the embedded one on marshal.
type UserDetail struct {
	User
	Submitted []Item `json:"submitted,omitempty"`
}

// ListingSummary is one row of a scraped listing page, in site-rank order.
// Score and CommentCount are nil when the page carried no parseable value.
type ListingSummary struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	By           string `json:"by,omitempty"`
	Time         int64  `json:"time,omitempty"`
	Score        *int   `json:"score,omitempty"`
	CommentCount *int   `json:"comments,omitempty"`
	URL          string `json:"url,omitempty"`
	Type         string `json:"type,omitempty"`
}

// EscapeURL percent-encodes an outgoing URL field. QueryEscape is used
// because its decode is an exact inverse, which the output contract relies on.
func EscapeURL(raw string) string {
	if raw == "" {
		return ""
	}
	return url.QueryEscape(raw)
}
