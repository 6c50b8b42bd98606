package book

// Optional is a patch field with three states: not supplied, supplied with
// a value, and supplied as null (clear the stored value).
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// FromPtr maps nil to Null and anything else to Set.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

func (o Optional[T]) IsSet() bool  { return o.set }
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Value returns the supplied value. ok is false when the field is unset or
// null.
func (o Optional[T]) Value() (v T, ok bool) {
	if !o.set || o.null {
		return v, false
	}
	return o.value, true
}

// SQLValue returns the value to bind for a supplied field: nil for null.
func (o Optional[T]) SQLValue() any {
	if o.null {
		return nil
	}
	return o.value
}
