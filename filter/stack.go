package filter

// stackItem - отложенный выходной токен.
type stackItem struct {
	text string
	typ  TokenType
}

// emissionStack - LIFO-буфер токенов одной единицы анализа.
// Все элементы разделяют одно смещение, захваченное при заполнении.
type emissionStack struct {
	items []stackItem
}

func (s *emissionStack) push(text string, typ TokenType) {
	s.items = append(s.items, stackItem{text: text, typ: typ})
}

func (s *emissionStack) pop() (stackItem, bool) {
	if len(s.items) == 0 {
		return stackItem{}, false
	}
	item := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return item, true
}

func (s *emissionStack) len() int {
	return len(s.items)
}

func (s *emissionStack) reset() {
	s.items = s.items[:0]
}
