package types

type Filter struct {
	Search         string
	Filter         map[string]interface{}
	Sort           map[string]string
	Limit          int
	Page           int
	Offset         int
	WithPagination bool
}
