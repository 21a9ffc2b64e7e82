package inventory

import "sort"

// Book holds the in-memory inventories of every connected client. It is
// owned by the tick goroutine.
type Book struct {
	inv map[int]map[string]int
}

func NewBook() *Book {
	return &Book{inv: make(map[int]map[string]int)}
}

// Entries returns the client's non-empty stacks sorted by name.
func (b *Book) Entries(clientID int) []Entry {
	items := b.inv[clientID]
	out := make([]Entry, 0, len(items))
	for name, num := range items {
		if num > 0 {
			out = append(out, Entry{Name: name, Num: num})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (b *Book) Count(clientID int, name string) int {
	return b.inv[clientID][name]
}

func (b *Book) Set(clientID int, name string, num int) {
	if num < 0 {
		num = 0
	}
	items := b.inv[clientID]
	if items == nil {
		items = make(map[string]int)
		b.inv[clientID] = items
	}
	if num == 0 {
		delete(items, name)
		return
	}
	items[name] = num
}

// Add changes a stack by delta and returns the new count.
func (b *Book) Add(clientID int, name string, delta int) int {
	n := b.Count(clientID, name) + delta
	if n < 0 {
		n = 0
	}
	b.Set(clientID, name, n)
	return n
}

// Replace swaps the client's whole inventory.
func (b *Book) Replace(clientID int, items map[string]int) {
	fresh := make(map[string]int, len(items))
	for name, num := range items {
		if num > 0 {
			fresh[name] = num
		}
	}
	b.inv[clientID] = fresh
}

func (b *Book) Clear(clientID int) {
	delete(b.inv, clientID)
}
