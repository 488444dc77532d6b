package models

import "fmt"

// Kind distinguishes the two listing types harvested from a subreddit.
type Kind string

const (
	KindSubmission Kind = "submission"
	KindComment    Kind = "comment"
)

// Kinds lists every kind a sweep covers, in processing order.
var Kinds = []Kind{KindSubmission, KindComment}

func (k Kind) Valid() bool {
	return k == KindSubmission || k == KindComment
}

// Item is a single submission or comment as fetched from reddit.
// Submissions carry their title in Body; comments their comment text.
// Items are immutable once fetched and never updated in the store.
type Item struct {
	Subreddit string
	Body      string
	Created   int64 // UNIX seconds
}

// Document is the shape persisted to MongoDB. Word holds the item's
// distinct lowercase tokens joined by spaces; the text index on it is
// what makes keyword search work.
type Document struct {
	Subreddit string `bson:"subreddit" json:"subreddit"`
	Body      string `bson:"body" json:"body"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
	Word      string `bson:"word" json:"-"`
}

// NewDocument builds the stored form of an item from its token string.
func NewDocument(item Item, word string) Document {
	return Document{
		Subreddit: item.Subreddit,
		Body:      item.Body,
		Timestamp: item.Created,
		Word:      word,
	}
}

func (i Item) String() string {
	return fmt.Sprintf("%s@%d", i.Subreddit, i.Created)
}
