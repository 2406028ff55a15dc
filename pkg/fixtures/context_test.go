package fixtures

import (
	"reflect"
	"testing"
)

func callIDs(ctx *Context) []string {
	var ids []string
	for _, call := range ctx.Calls() {
		ids = append(ids, call.ID)
	}
	return ids
}

func TestParametrize(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("role", []any{"admin", "user"})

	if got := callIDs(ctx); !reflect.DeepEqual(got, []string{"admin", "user"}) {
		t.Fatalf("call ids = %v", got)
	}
	calls := ctx.Calls()
	if calls[0].Params["role"] != "admin" || calls[1].Params["role"] != "user" {
		t.Fatalf("call params = %v", calls)
	}
	if !calls[0].Keywords["admin"] {
		t.Fatal("keyword not set on call")
	}
}

func TestParametrizeExplicitIDs(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("limit", []any{10, 1000}, WithIDs("small", "large"))

	if got := callIDs(ctx); !reflect.DeepEqual(got, []string{"small", "large"}) {
		t.Fatalf("call ids = %v", got)
	}
}

func TestParametrizeDefaultIDsFromValues(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("limit", []any{10, true})

	if got := callIDs(ctx); !reflect.DeepEqual(got, []string{"10", "true"}) {
		t.Fatalf("call ids = %v", got)
	}
}

func TestParametrizeRepeatedValuesGetIndexedIDs(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("role", []any{"admin", "admin", "user"})

	if got := callIDs(ctx); !reflect.DeepEqual(got, []string{"admin0", "admin1", "user"}) {
		t.Fatalf("call ids = %v", got)
	}
	calls := ctx.Calls()
	if calls[0].Params["role"] != "admin" || calls[1].Params["role"] != "admin" {
		t.Fatalf("call params = %v", calls)
	}
	if !calls[0].Keywords["admin0"] || !calls[1].Keywords["admin1"] {
		t.Fatalf("keywords not indexed: %v %v", calls[0].Keywords, calls[1].Keywords)
	}
}

func TestParametrizeRepeatedExplicitIDsGetIndexed(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("limit", []any{10, 20}, WithIDs("same", "same"))

	if got := callIDs(ctx); !reflect.DeepEqual(got, []string{"same0", "same1"}) {
		t.Fatalf("call ids = %v", got)
	}
}

func TestParametrizeStackingMultiplies(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("role", []any{"admin", "user"})
	ctx.Parametrize("region", []any{"eu", "us"})

	want := []string{"admin-eu", "admin-us", "user-eu", "user-us"}
	if got := callIDs(ctx); !reflect.DeepEqual(got, want) {
		t.Fatalf("call ids = %v, want %v", got, want)
	}

	for _, call := range ctx.Calls() {
		if call.Params["role"] == nil || call.Params["region"] == nil {
			t.Fatalf("combined call misses a parameter: %v", call.Params)
		}
	}
}

func TestParametrizeTracksNamesOnce(t *testing.T) {
	ctx := &Context{def: &Definition{name: "t"}}
	ctx.Parametrize("role", []any{"a"})
	ctx.Parametrize("role", []any{"b"})

	if got := ctx.names; !reflect.DeepEqual(got, []string{"role"}) {
		t.Fatalf("names = %v", got)
	}
}
