package entity

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
