package view

import (
	"strconv"
	"strings"

	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/tui"
	"github.com/cockroachdb/errors"
)

// Sections returns the five resource sections in menu order.
func Sections() []Section {
	return []Section{products(), recipes(), posts(), comments(), todos()}
}

func invalid(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}

func parseFloat(label, s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, invalid("%s must be a positive number", label)
	}
	return f, nil
}

func parseOptionalInt(label, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, invalid("%s must be a positive whole number", label)
	}
	return n, nil
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = strconv.Itoa(i+1) + ". " + item
	}
	return strings.Join(lines, "\n")
}

func stars(rating float64) string {
	if rating == 0 {
		return "-"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// omitEmpty drops blank values. Zero counts are kept; fields where zero
// means unset go through unset first.
func omitEmpty(pairs [][2]string) [][2]string {
	out := pairs[:0]
	for _, p := range pairs {
		if strings.TrimSpace(p[1]) != "" {
			out = append(out, p)
		}
	}
	return out
}

var productFields = []Field{
	{Name: "title", Label: "Title", Required: true},
	{Name: "description", Label: "Description"},
	{Name: "price", Label: "Price", Required: true},
	{Name: "thumbnail", Label: "Thumbnail URL"},
}

func productInput(v Values) (any, error) {
	price, err := parseFloat("Price", v["price"])
	if err != nil {
		return nil, err
	}
	return resource.ProductInput{
		Title:       strings.TrimSpace(v["title"]),
		Description: strings.TrimSpace(v["description"]),
		Price:       price,
		Thumbnail:   strings.TrimSpace(v["thumbnail"]),
	}, nil
}

func productDetail(p resource.Product) [][2]string {
	pairs := [][2]string{
		{"ID", itoa(p.ID)},
		{"Description", p.Description},
		{"Price", money(p.Price)},
		{"Category", p.Category},
		{"Brand", p.Brand},
		{"Rating", stars(p.Rating)},
		{"Stock", itoa(p.Stock)},
		{"Availability", p.AvailabilityStatus},
		{"SKU", p.SKU},
		{"Warranty", p.WarrantyInformation},
		{"Shipping", p.ShippingInformation},
		{"Return policy", p.ReturnPolicy},
		{"Tags", joinList(p.Tags)},
		{"Thumbnail", p.Thumbnail},
	}
	if p.DiscountPercentage > 0 {
		pairs = append(pairs, [2]string{"Discount", strconv.FormatFloat(p.DiscountPercentage, 'f', 2, 64) + "%"})
	}
	if p.MinimumOrderQuantity > 0 {
		pairs = append(pairs, [2]string{"Minimum order", itoa(p.MinimumOrderQuantity)})
	}
	if d := p.Dimensions; d != nil {
		dims := strconv.FormatFloat(d.Width, 'f', -1, 64) + " x " +
			strconv.FormatFloat(d.Height, 'f', -1, 64) + " x " +
			strconv.FormatFloat(d.Depth, 'f', -1, 64)
		pairs = append(pairs, [2]string{"Dimensions", dims})
	}
	reviews := "No reviews yet."
	if len(p.Reviews) > 0 {
		lines := make([]string, len(p.Reviews))
		for i, r := range p.Reviews {
			lines[i] = strconv.Itoa(r.Rating) + "/5 " + r.ReviewerName + ": " + r.Comment
		}
		reviews = strings.Join(lines, "\n")
	}
	pairs = append(pairs, [2]string{"Reviews", reviews})
	return omitEmpty(pairs)
}

func products() *Resource[resource.Product] {
	return &Resource[resource.Product]{
		Kind:      resource.Products,
		Plural:    "Products",
		Client:    func(c *resource.Clients) *resource.Client[resource.Product] { return c.Products },
		ListKey:   query.K("productList"),
		DetailKey: func(id int) query.Key { return query.K("productDetail", id) },
		Columns:   []string{"ID", "Title", "Price", "Rating", "Stock"},
		Row: func(p resource.Product) []string {
			return []string{itoa(p.ID), p.Title, money(p.Price), stars(p.Rating), itoa(p.Stock)}
		},
		Heading:       func(p resource.Product) string { return p.Title },
		Detail:        productDetail,
		CreateFields:  productFields,
		CreatePayload: productInput,
		EditFields:    productFields,
		FormValues: func(p resource.Product) Values {
			return Values{
				"title":       p.Title,
				"description": p.Description,
				"price":       strconv.FormatFloat(p.Price, 'f', -1, 64),
				"thumbnail":   p.Thumbnail,
			}
		},
		UpdatePayload:   productInput,
		ReplaceOnDelete: true,
		Messages: Messages{
			Empty:         "No products found.",
			LoadFailure:   "Failed to load products.",
			NotFound:      "Product not found.",
			ConfirmUpdate: "Are you sure you want to update this product?",
			UpdateSuccess: "Product updated successfully! Redirecting to product details...",
			ConfirmDelete: "Are you sure you want to delete this product?",
		},
	}
}

func recipes() *Resource[resource.Recipe] {
	return &Resource[resource.Recipe]{
		Kind:      resource.Recipes,
		Plural:    "Recipes",
		Client:    func(c *resource.Clients) *resource.Client[resource.Recipe] { return c.Recipes },
		ListKey:   query.K("recipeList"),
		DetailKey: func(id int) query.Key { return query.K("recipeDetail", id) },
		Columns:   []string{"ID", "Name", "Cuisine", "Difficulty", "Rating"},
		Row: func(r resource.Recipe) []string {
			return []string{itoa(r.ID), r.Name, r.Cuisine, r.Difficulty, stars(r.Rating)}
		},
		Heading: func(r resource.Recipe) string { return r.Name },
		Detail: func(r resource.Recipe) [][2]string {
			return omitEmpty([][2]string{
				{"ID", itoa(r.ID)},
				{"Cuisine", r.Cuisine},
				{"Difficulty", r.Difficulty},
				{"Category", r.Category},
				{"Description", r.Description},
				{"Prep time", minutes(r.PrepTimeMinutes)},
				{"Cook time", minutes(r.CookTimeMinutes)},
				{"Servings", unset(r.Servings)},
				{"Calories", unset(r.CaloriesPerServing)},
				{"Rating", stars(r.Rating)},
				{"Tags", joinList(r.Tags)},
				{"Ingredients", strings.Join(r.Ingredients, "\n")},
				{"Instructions", numbered(r.Instructions)},
				{"Image", r.Image},
			})
		},
		CreateFields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "cuisine", Label: "Cuisine"},
			{Name: "difficulty", Label: "Difficulty"},
			{Name: "image", Label: "Image URL"},
		},
		CreatePayload: func(v Values) (any, error) {
			return resource.RecipeInput{
				Name:       strings.TrimSpace(v["name"]),
				Cuisine:    strings.TrimSpace(v["cuisine"]),
				Difficulty: strings.TrimSpace(v["difficulty"]),
				Image:      strings.TrimSpace(v["image"]),
			}, nil
		},
		EditFields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "description", Label: "Description"},
			{Name: "category", Label: "Category"},
		},
		FormValues: func(r resource.Recipe) Values {
			return Values{"name": r.Name, "description": r.Description, "category": r.Category}
		},
		UpdatePayload: func(v Values) (any, error) {
			return resource.RecipeInput{
				Name:        strings.TrimSpace(v["name"]),
				Description: strings.TrimSpace(v["description"]),
				Category:    strings.TrimSpace(v["category"]),
			}, nil
		},
		Messages: Messages{
			Empty:         "No recipes found.",
			LoadFailure:   "Failed to load recipes.",
			NotFound:      "Recipe not found.",
			ConfirmDelete: "Are you sure you want to delete this recipe?",
		},
	}
}

func minutes(n int) string {
	if n == 0 {
		return ""
	}
	return itoa(n) + " min"
}

func unset(n int) string {
	if n == 0 {
		return ""
	}
	return itoa(n)
}

var postFields = []Field{
	{Name: "title", Label: "Title", Required: true},
	{Name: "body", Label: "Body", Required: true},
}

func posts() *Resource[resource.Post] {
	return &Resource[resource.Post]{
		Kind:      resource.Posts,
		Plural:    "Posts",
		Client:    func(c *resource.Clients) *resource.Client[resource.Post] { return c.Posts },
		ListKey:   query.K("postList"),
		DetailKey: func(id int) query.Key { return query.K("postDetail", id) },
		Columns:   []string{"ID", "Title", "Body", "Likes", "Views"},
		Row: func(p resource.Post) []string {
			body := "No content available"
			if p.Body != "" {
				body = excerpt(p.Body, 80)
			}
			return []string{itoa(p.ID), p.Title, body, itoa(p.Reactions.Likes), itoa(p.Views)}
		},
		Heading: func(p resource.Post) string { return p.Title },
		Detail: func(p resource.Post) [][2]string {
			return [][2]string{
				{"ID", itoa(p.ID)},
				{"Body", p.Body},
				{"Tags", joinList(p.Tags)},
				{"Likes", itoa(p.Reactions.Likes)},
				{"Dislikes", itoa(p.Reactions.Dislikes)},
				{"Views", itoa(p.Views)},
			}
		},
		CreateFields: postFields,
		CreatePayload: func(v Values) (any, error) {
			views := 0
			return resource.PostInput{
				Title:     strings.TrimSpace(v["title"]),
				Body:      strings.TrimSpace(v["body"]),
				Views:     &views,
				Reactions: &resource.Reactions{},
			}, nil
		},
		EditFields: postFields,
		FormValues: func(p resource.Post) Values {
			return Values{"title": p.Title, "body": p.Body}
		},
		UpdatePayload: func(v Values) (any, error) {
			return resource.PostInput{
				Title: strings.TrimSpace(v["title"]),
				Body:  strings.TrimSpace(v["body"]),
			}, nil
		},
		Messages: Messages{
			Empty:         "No posts yet.",
			LoadFailure:   "Failed to load posts.",
			NotFound:      "Post not found.",
			ConfirmDelete: "Are you sure you want to delete this post?",
		},
	}
}

func comments() *Resource[resource.Comment] {
	return &Resource[resource.Comment]{
		Kind:      resource.Comments,
		Plural:    "Comments",
		Client:    func(c *resource.Clients) *resource.Client[resource.Comment] { return c.Comments },
		ListKey:   query.K("comments"),
		DetailKey: func(id int) query.Key { return query.K("comment", id) },
		Columns:   []string{"ID", "User", "Comment", "Likes"},
		Row: func(c resource.Comment) []string {
			return []string{itoa(c.ID), c.User.FullName, excerpt(c.Body, 80), itoa(c.Likes)}
		},
		Heading: func(c resource.Comment) string { return "Comment by " + c.User.FullName },
		Detail: func(c resource.Comment) [][2]string {
			return [][2]string{
				{"ID", itoa(c.ID)},
				{"User", c.User.FullName + " " + tui.Muted("@"+c.User.Username)},
				{"Comment", c.Body},
				{"Post", itoa(c.PostID)},
				{"Likes", itoa(c.Likes)},
			}
		},
		CreateFields: []Field{
			{Name: "body", Label: "Comment", Required: true},
			{Name: "fullName", Label: "Full name", Required: true},
			{Name: "username", Label: "Username", Required: true},
			{Name: "postId", Label: "Post ID"},
		},
		CreatePayload: func(v Values) (any, error) {
			postID, err := parseOptionalInt("Post ID", v["postId"])
			if err != nil {
				return nil, err
			}
			return resource.CommentInput{
				Body:     strings.TrimSpace(v["body"]),
				FullName: strings.TrimSpace(v["fullName"]),
				Username: strings.TrimSpace(v["username"]),
				PostID:   postID,
			}, nil
		},
		Optimistic: func(localID int, v Values) resource.Comment {
			return resource.Comment{
				ID:   localID,
				Body: strings.TrimSpace(v["body"]),
				User: resource.CommentUser{
					FullName: strings.TrimSpace(v["fullName"]),
					Username: strings.TrimSpace(v["username"]),
				},
			}
		},
		EditFields: []Field{{Name: "body", Label: "Comment", Required: true}},
		FormValues: func(c resource.Comment) Values {
			return Values{"body": c.Body}
		},
		UpdatePayload: func(v Values) (any, error) {
			return resource.CommentInput{Body: strings.TrimSpace(v["body"])}, nil
		},
		Messages: Messages{
			Empty:         "No comments available.",
			LoadFailure:   "Error fetching comments.",
			NotFound:      "Comment not found.",
			UpdateSuccess: "Comment updated successfully!",
			UpdateFailure: "Failed to update comment.",
			ConfirmDelete: "Are you sure you want to delete this comment?",
			DeleteSuccess: "Comment deleted successfully!",
			DeleteFailure: "Failed to delete comment.",
		},
	}
}

func todoStatus(t resource.Todo) string {
	if t.Completed {
		return "Completed"
	}
	return "In progress"
}

func todos() *Resource[resource.Todo] {
	return &Resource[resource.Todo]{
		Kind:      resource.Todos,
		Plural:    "Todos",
		Client:    func(c *resource.Clients) *resource.Client[resource.Todo] { return c.Todos },
		ListKey:   query.K("todos"),
		DetailKey: func(id int) query.Key { return query.K("todo", id) },
		Columns:   []string{"ID", "Todo", "Status"},
		Row: func(t resource.Todo) []string {
			text := t.Todo
			if t.Completed {
				text = tui.Strike(text)
			}
			return []string{itoa(t.ID), text, todoStatus(t)}
		},
		Heading: func(resource.Todo) string { return "Todo Detail" },
		Detail: func(t resource.Todo) [][2]string {
			text := t.Todo
			if t.Completed {
				text = tui.Strike(text)
			}
			return [][2]string{
				{"ID", itoa(t.ID)},
				{"Status", todoStatus(t)},
				{"Todo", text},
			}
		},
		// Empty text gets its own message rather than a required-field error.
		CreateFields: []Field{{Name: "todo", Label: "Todo"}},
		CreatePayload: func(v Values) (any, error) {
			text := strings.TrimSpace(v["todo"])
			if text == "" {
				return nil, invalid("Todo cannot be empty!")
			}
			completed := false
			return resource.TodoInput{Todo: text, Completed: &completed}, nil
		},
		Optimistic: func(localID int, v Values) resource.Todo {
			return resource.Todo{ID: localID, Todo: strings.TrimSpace(v["todo"])}
		},
		EditFields: []Field{
			{Name: "todo", Label: "Todo", Required: true},
			{Name: "completed", Label: "Completed"},
		},
		FormValues: func(t resource.Todo) Values {
			return Values{"todo": t.Todo, "completed": strconv.FormatBool(t.Completed)}
		},
		UpdatePayload: func(v Values) (any, error) {
			completed := false
			if s := strings.TrimSpace(v["completed"]); s != "" {
				b, err := strconv.ParseBool(s)
				if err != nil {
					return nil, invalid("Completed must be true or false")
				}
				completed = b
			}
			return resource.TodoInput{Todo: strings.TrimSpace(v["todo"]), Completed: &completed}, nil
		},
		Toggle: func(t resource.Todo) (resource.Todo, any) {
			t.Completed = !t.Completed
			completed := t.Completed
			return t, resource.TodoInput{Completed: &completed}
		},
		Messages: Messages{
			Empty:         "No todos yet. Start adding one!",
			LoadFailure:   "Failed to load todos.",
			NotFound:      "Todo not found.",
			UpdateFailure: "Failed to save changes. Try again later.",
			ConfirmDelete: "Are you sure you want to delete this todo? This action cannot be undone.",
		},
	}
}
