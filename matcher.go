package flowstate

// Matcher is a partial function from T to A: it yields (a, true) when it
// matches its input, and (zero, false) otherwise. Flow's WaitFor and the
// DSL's command/event dispatch are both built from composed Matchers.
type Matcher[T, A any] func(T) (A, bool)

// MatchAny always matches, returning the input unchanged as A when T == A.
func MatchAny[T any]() Matcher[T, T] {
	return func(t T) (T, bool) { return t, true }
}

// Or composes matchers left-to-right: the first matcher that matches wins.
// This is the "orElse" composition spec §4.1 and §4.2 both require for
// combining clause matchers.
func Or[T, A any](matchers ...Matcher[T, A]) Matcher[T, A] {
	return func(t T) (A, bool) {
		for _, m := range matchers {
			if a, ok := m(t); ok {
				return a, ok
			}
		}
		var zero A
		return zero, false
	}
}
