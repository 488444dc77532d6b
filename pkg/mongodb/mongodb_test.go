package mongodb

import (
	"testing"

	"github.com/crushack/Reddit-Indexer/pkg/models"
)

func TestCollectionName(t *testing.T) {
	cases := []struct {
		sub  string
		kind models.Kind
		want string
	}{
		{"golang", models.KindSubmission, "reddit__subm__golang"},
		{"golang", models.KindComment, "reddit__comm__golang"},
		{"all", models.KindSubmission, "reddit__subm__all"},
	}
	for _, c := range cases {
		if got := CollectionName(c.sub, c.kind); got != c.want {
			t.Errorf("CollectionName(%q, %q) = %q; want %q", c.sub, c.kind, got, c.want)
		}
	}
}
