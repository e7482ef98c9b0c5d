package listing

// PageInfo describes one page of a paginated list. Number is 1-based.
type PageInfo struct {
	Number int
	Size   int
	Total  int64
	Pages  int
}

func (p PageInfo) HasNext() bool {
	return p.Number < p.Pages
}

func (p PageInfo) HasPrevious() bool {
	return p.Number > 1
}

// Resolve clamps a requested page against total: anything below 1 becomes the
// first page, anything past the end becomes the last page. An empty list still
// has one (empty) page.
func Resolve(requested, size int, total int64) PageInfo {
	if size <= 0 {
		size = 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return PageInfo{Number: number, Size: size, Total: total, Pages: pages}
}

func (p PageInfo) Offset() int {
	return (p.Number - 1) * p.Size
}

// Slice returns the items of page p from an already materialized list.
func Slice[T any](items []T, p PageInfo) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Fetch loads one page through a limit/offset query. When the requested page is
// past the end, the last page is fetched instead.
func Fetch[T any](requested, size int, query func(limit, offset int) ([]T, int64, error)) ([]T, PageInfo, error) {
	guess := Resolve(requested, size, int64(requested)*int64(size))
	items, total, err := query(guess.Size, guess.Offset())
	if err != nil {
		return nil, PageInfo{}, err
	}

	info := Resolve(requested, size, total)
	if info.Number == guess.Number {
		return items, info, nil
	}

	items, total, err = query(info.Size, info.Offset())
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, Resolve(info.Number, size, total), nil
}
