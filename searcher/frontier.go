package searcher

// frontier is a min-heap of arena indices ordered by f = g + h. Ties are broken by
// arena index, which is insertion order, so the search is FIFO among equal f.
type frontier[A any] struct {
	arena *[]record[A]
	ids   []int
}

func (q frontier[A]) Len() int { return len(q.ids) }

func (q frontier[A]) Less(i, j int) bool {
	a, b := &(*q.arena)[q.ids[i]], &(*q.arena)[q.ids[j]]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	return q.ids[i] < q.ids[j]
}

func (q frontier[A]) Swap(i, j int) {
	q.ids[i], q.ids[j] = q.ids[j], q.ids[i]
}

func (q *frontier[A]) Push(x any) {
	q.ids = append(q.ids, x.(int))
}

func (q *frontier[A]) Pop() any {
	old := q.ids
	n := len(old)
	id := old[n-1]
	q.ids = old[:n-1]
	return id
}
