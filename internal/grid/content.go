package grid

import "fmt"

// ContentFunc computes attributes for one row. It must be pure: it is
// called once per cell and its result is never reused for another row.
type ContentFunc func(model any, key string, index int, col *CheckboxColumn) (Attrs, error)

// ContentRule is either a static attribute map or a per-row ContentFunc.
// The zero value resolves to an empty map.
type ContentRule struct {
	static  Attrs
	dynamic ContentFunc
}

// StaticContent returns a rule that yields the same attributes for every row.
func StaticContent(a Attrs) ContentRule {
	return ContentRule{static: a}
}

// DynamicContent returns a rule evaluated for every row.
func DynamicContent(fn ContentFunc) ContentRule {
	return ContentRule{dynamic: fn}
}

// IsDynamic reports whether the rule is evaluated per row.
func (r ContentRule) IsDynamic() bool {
	return r.dynamic != nil
}

// Resolve returns a fresh attribute map for one row. A panicking rule is
// converted into an error so the caller can attach the row identity.
func (r ContentRule) Resolve(model any, key string, index int, col *CheckboxColumn) (attrs Attrs, err error) {
	if r.dynamic == nil {
		return cloneAttrs(r.static), nil
	}

	defer func() {
		if p := recover(); p != nil {
			attrs, err = nil, fmt.Errorf("content rule panicked: %v", p)
		}
	}()

	out, err := r.dynamic(model, key, index, col)
	if err != nil {
		return nil, err
	}
	return cloneAttrs(out), nil
}

// Then returns a dynamic rule that resolves r and passes the result through
// fn. Hosting layers use it to overlay request state without touching the
// registered column.
func (r ContentRule) Then(fn func(a Attrs, model any, key string, index int) Attrs) ContentRule {
	return DynamicContent(func(model any, key string, index int, col *CheckboxColumn) (Attrs, error) {
		a, err := r.Resolve(model, key, index, col)
		if err != nil {
			return nil, err
		}
		return fn(a, model, key, index), nil
	})
}
