package resource

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind describes where a resource lives on the remote API.
type Kind struct {
	// Name is the singular display name.
	Name string
	// Path is the collection path.
	Path string
	// Envelope is the JSON field holding the array in list responses.
	Envelope string
}

var (
	Products = Kind{Name: "product", Path: "/product", Envelope: "products"}
	Recipes  = Kind{Name: "recipe", Path: "/recipes", Envelope: "recipes"}
	Posts    = Kind{Name: "post", Path: "/posts", Envelope: "posts"}
	Comments = Kind{Name: "comment", Path: "/comments", Envelope: "comments"}
	Todos    = Kind{Name: "todo", Path: "/todos", Envelope: "todos"}
)

// Kinds lists every resource kind in menu order.
var Kinds = []Kind{Products, Recipes, Posts, Comments, Todos}

// ErrInvalidID is returned when an id is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ItemPath returns the path of one record.
func (k Kind) ItemPath(id int) string {
	return k.Path + "/" + strconv.Itoa(id)
}

// Route returns the console route of the collection, which matches its API path.
func (k Kind) Route() string {
	return k.Path
}

// ParseID converts a route parameter into a record id.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(ErrInvalidID, "%q", s)
	}
	return id, nil
}

// KindByName finds a kind by singular name, plural envelope or path segment.
func KindByName(name string) (Kind, bool) {
	name = strings.Trim(strings.ToLower(name), "/")
	for _, k := range Kinds {
		if name == k.Name || name == k.Envelope || name == strings.TrimPrefix(k.Path, "/") {
			return k, true
		}
	}
	return Kind{}, false
}
