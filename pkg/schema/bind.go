package schema

// Fixtures holds resolved fixture values by name, injected into a test
// function at invocation time by the host runner machinery.
type Fixtures map[string]any

// TestFunc is a user-authored property test body. The engine invokes it once
// per generated case; fixtures carry host-runner injected values, including
// parametrization sub-case values.
type TestFunc func(c *Case, fx Fixtures) error

// BoundTest ties a user test function to a specification and a set of input
// types. It is immutable after creation.
type BoundTest struct {
	fn         TestFunc
	catalog    Catalog
	inputTypes []InputType
	fixtures   []string
}

// BindOption configures a bound test.
type BindOption func(*BoundTest)

// WithInputTypes sets the input-validity classes the test is exercised
// against. The order given here is the enumeration order during collection.
// Calling it with no classes keeps the default; the class set is never empty.
func WithInputTypes(types ...InputType) BindOption {
	return func(b *BoundTest) {
		if len(types) == 0 {
			return
		}
		b.inputTypes = types
	}
}

// WithFixtures declares the fixtures the test function uses. Names must be
// registered with the host runner's fixture registry before collection.
func WithFixtures(names ...string) BindOption {
	return func(b *BoundTest) {
		b.fixtures = names
	}
}

// Bind attaches the schema to a test function, producing a bound test the
// collector recognizes.
func (s *Schema) Bind(fn TestFunc, opts ...BindOption) *BoundTest {
	return BindCatalog(s, fn, opts...)
}

// BindCatalog binds a test function to an arbitrary operation catalog.
func BindCatalog(catalog Catalog, fn TestFunc, opts ...BindOption) *BoundTest {
	b := &BoundTest{
		fn:         fn,
		catalog:    catalog,
		inputTypes: []InputType{InputTypeValid},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Func returns the underlying test function.
func (b *BoundTest) Func() TestFunc { return b.fn }

// Catalog returns the operation source the test is bound to.
func (b *BoundTest) Catalog() Catalog { return b.catalog }

// InputTypes returns the validity classes to test, in enumeration order.
func (b *BoundTest) InputTypes() []InputType { return b.inputTypes }

// FixtureNames returns the fixtures the test function declared.
func (b *BoundTest) FixtureNames() []string { return b.fixtures }

// binding is the structured marker distinguishing bound tests from arbitrary
// callables. Only values created through Bind carry it.
func (b *BoundTest) binding() *BoundTest { return b }

// Binding is implemented exclusively by *BoundTest. Collectors use it to
// recognize specification-bound tests without duck-typed probing.
type Binding interface {
	binding() *BoundTest
}

// AsBound reports whether v is a specification-bound test and returns it.
func AsBound(v any) (*BoundTest, bool) {
	b, ok := v.(Binding)
	if !ok {
		return nil, false
	}
	return b.binding(), true
}
