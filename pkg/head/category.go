package head

// Category names a kind of head tag.
type Category string

const (
	CategoryBase     Category = "base"
	CategoryLink     Category = "link"
	CategoryMeta     Category = "meta"
	CategoryNoscript Category = "noscript"
	CategoryScript   Category = "script"
	CategoryStyle    Category = "style"
)

// TagCategories lists the tag categories in commit order.
var TagCategories = []Category{
	CategoryBase,
	CategoryLink,
	CategoryMeta,
	CategoryNoscript,
	CategoryScript,
	CategoryStyle,
}

// AttributeTarget names an element whose attributes the library manages.
type AttributeTarget string

const (
	TargetHTML  AttributeTarget = "html"
	TargetBody  AttributeTarget = "body"
	TargetTitle AttributeTarget = "title"
)

// Valid reports whether c is a known tag category.
func (c Category) Valid() bool {
	_, ok := Policies[c]
	return ok
}
