package resource

// Record is implemented by every resource type.
type Record interface {
	RecordID() int
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Review struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail,omitempty"`
}

type ProductMeta struct {
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	QRCode    string `json:"qrCode,omitempty"`
}

type Product struct {
	ID                   int          `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Price                float64      `json:"price"`
	Thumbnail            string       `json:"thumbnail,omitempty"`
	Category             string       `json:"category,omitempty"`
	DiscountPercentage   float64      `json:"discountPercentage,omitempty"`
	Rating               float64      `json:"rating,omitempty"`
	Stock                int          `json:"stock,omitempty"`
	Tags                 []string     `json:"tags,omitempty"`
	Brand                string       `json:"brand,omitempty"`
	SKU                  string       `json:"sku,omitempty"`
	Weight               float64      `json:"weight,omitempty"`
	Dimensions           *Dimensions  `json:"dimensions,omitempty"`
	WarrantyInformation  string       `json:"warrantyInformation,omitempty"`
	ShippingInformation  string       `json:"shippingInformation,omitempty"`
	AvailabilityStatus   string       `json:"availabilityStatus,omitempty"`
	Reviews              []Review     `json:"reviews,omitempty"`
	ReturnPolicy         string       `json:"returnPolicy,omitempty"`
	MinimumOrderQuantity int          `json:"minimumOrderQuantity,omitempty"`
	Meta                 *ProductMeta `json:"meta,omitempty"`
	Images               []string     `json:"images,omitempty"`
}

func (p Product) RecordID() int { return p.ID }

// ProductInput is the body of a product create or update.
type ProductInput struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}

type Recipe struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Cuisine            string   `json:"cuisine,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	Image              string   `json:"image,omitempty"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	Ingredients        []string `json:"ingredients,omitempty"`
	Instructions       []string `json:"instructions,omitempty"`
	PrepTimeMinutes    int      `json:"prepTimeMinutes,omitempty"`
	CookTimeMinutes    int      `json:"cookTimeMinutes,omitempty"`
	Servings           int      `json:"servings,omitempty"`
	CaloriesPerServing int      `json:"caloriesPerServing,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
}

func (r Recipe) RecordID() int { return r.ID }

// RecipeInput is the body of a recipe create or update.
type RecipeInput struct {
	Name        string `json:"name,omitempty"`
	Cuisine     string `json:"cuisine,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type Reactions struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes,omitempty"`
}

type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	Reactions Reactions `json:"reactions"`
	Views     int       `json:"views"`
	UserID    int       `json:"userId,omitempty"`
}

func (p Post) RecordID() int { return p.ID }

// PostInput is the body of a post create or update.
type PostInput struct {
	Title     string     `json:"title,omitempty"`
	Body      string     `json:"body,omitempty"`
	Views     *int       `json:"views,omitempty"`
	Reactions *Reactions `json:"reactions,omitempty"`
}

type CommentUser struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type Comment struct {
	ID     int         `json:"id"`
	Body   string      `json:"body"`
	PostID int         `json:"postId,omitempty"`
	Likes  int         `json:"likes"`
	User   CommentUser `json:"user"`
}

func (c Comment) RecordID() int { return c.ID }

// CommentInput is the body of a comment create or update.
type CommentInput struct {
	Body     string `json:"body,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	PostID   int    `json:"postId,omitempty"`
}

type Todo struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId,omitempty"`
}

func (t Todo) RecordID() int { return t.ID }

// TodoInput is the body of a todo create or update. Completed is a pointer so
// an update can leave it untouched.
type TodoInput struct {
	Todo      string `json:"todo,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	UserID    int    `json:"userId,omitempty"`
}
