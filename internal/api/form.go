package api

import (
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/Belphemur/ShowRegistry/internal/models"
)

const (
	// formMaxDepth is the number of bracket segments parsed per key; the rest
	// of the key becomes a single literal segment.
	formMaxDepth = 5
	// formMaxIndex is the largest explicit index that still builds an array.
	formMaxIndex = 20
)

// decodeFormShow reads "show" from a URL-encoded body. Bracketed keys nest:
// show[]=a&show[]=b and show[0]=a build arrays, show[title]=Dark builds an
// object, and a repeated plain show=a&show=b also yields an array. Leaves are
// always strings.
func decodeFormShow(body io.Reader, mediaType string) (models.ShowInput, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return models.ShowInput{}, &apperrors.ErrMalformedBody{ContentType: mediaType, Err: err}
	}

	root := newFormTree()
	for pair := range strings.SplitSeq(string(raw), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return models.ShowInput{}, &apperrors.ErrMalformedBody{ContentType: mediaType, Err: err}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return models.ShowInput{}, &apperrors.ErrMalformedBody{ContentType: mediaType, Err: err}
		}
		if path, ok := formKeyPath(key); ok && path[0] == "show" {
			root.insert(path, value)
		}
	}

	show, ok := root.kids["show"]
	if !ok {
		return models.ShowInput{}, nil
	}
	return models.ShowInput{Present: true, Show: finalizeForm(show)}, nil
}

// formKeyPath splits "show[a][b]" into ["show", "a", "b"]. A key whose
// brackets do not close is taken literally.
func formKeyPath(key string) ([]string, bool) {
	name, rest, found := strings.Cut(key, "[")
	if !found {
		return []string{key}, key != ""
	}
	if name == "" {
		return nil, false
	}

	path := []string{name}
	rest = "[" + rest
	for rest != "" && len(path) <= formMaxDepth {
		if rest[0] != '[' {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	if len(path) == 1 {
		return []string{key}, true
	}
	if rest != "" {
		path = append(path, rest)
	}
	return path, true
}

// formTree is one bracket level of a form key. It stays a list while every
// key is a push ("[]") or a small index.
type formTree struct {
	order []string
	kids  map[string]any // string, []any of strings, or *formTree
	list  bool
	next  int
}

func newFormTree() *formTree {
	return &formTree{kids: make(map[string]any), list: true}
}

func (t *formTree) insert(path []string, value string) {
	key := path[0]
	switch {
	case key == "":
		key = strconv.Itoa(t.next)
	case isFormIndex(key):
	default:
		t.list = false
	}
	if i, err := strconv.Atoi(key); err == nil && i >= t.next {
		t.next = i + 1
	}

	existing, seen := t.kids[key]
	if !seen {
		t.order = append(t.order, key)
	}

	if len(path) == 1 {
		switch v := existing.(type) {
		case nil:
			t.kids[key] = value
		case string:
			t.kids[key] = []any{v, value}
		case []any:
			t.kids[key] = append(v, value)
		}
		// A leaf never replaces a nested level.
		return
	}

	child, ok := existing.(*formTree)
	if !seen {
		child, ok = newFormTree(), true
		t.kids[key] = child
	}
	if ok {
		child.insert(path[1:], value)
	}
}

func isFormIndex(key string) bool {
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0 && i <= formMaxIndex && strconv.Itoa(i) == key
}

// finalizeForm turns list trees into []any ordered by index and the others
// into map[string]any.
func finalizeForm(v any) any {
	t, ok := v.(*formTree)
	if !ok {
		return v
	}

	if t.list {
		keys := slices.Clone(t.order)
		slices.SortFunc(keys, func(a, b string) int {
			i, _ := strconv.Atoi(a)
			j, _ := strconv.Atoi(b)
			return i - j
		})
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, finalizeForm(t.kids[k]))
		}
		return out
	}

	out := make(map[string]any, len(t.kids))
	for _, k := range t.order {
		out[k] = finalizeForm(t.kids[k])
	}
	return out
}
