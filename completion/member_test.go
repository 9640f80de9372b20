package completion_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove/completion"
)

func TestUnifyMembers_OrderingAndDeduplication(t *testing.T) {
	t.Parallel()

	members := []completion.Member{
		completion.ReflectedMethodGroup{Name: "Name", Overloads: []string{"func() string"}},
		completion.ReflectedProperty{Name: "Name", Type: "string"},
		completion.ReflectedProperty{Name: "Length", Type: "int"},
		completion.ReflectedMethodGroup{Name: "Close"},
	}

	got := completion.UnifyMembers(members, completion.MemberOptions{})

	// The property and the method group sharing a name collapse to one
	// entry, and kind ordering makes it the property.
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Display)
	}

	want := []string{"Length", "Name", "Close"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, completion.KindProperty, got[1].Kind, "the property wins the name collision")
	assert.Equal(t, completion.KindMethod, got[2].Kind)
}

func TestUnifyMembers_HiddenFilteredBeforeMatching(t *testing.T) {
	t.Parallel()

	members := []completion.Member{
		completion.ReflectedProperty{Name: "Visible", Type: "string"},
		completion.ReflectedProperty{Name: "Veiled", Type: "string", Hidden: true},
		completion.ClassMember{Name: "Vanish", Method: true, Hidden: true},
	}

	got := completion.UnifyMembers(members, completion.MemberOptions{Prefix: "v"})

	require.Len(t, got, 1)
	assert.Equal(t, "Visible", got[0].Display)
}

func TestUnifyMembers_PrefixGlobIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	members := []completion.Member{
		completion.ReflectedProperty{Name: "ExitCode", Type: "int"},
		completion.ReflectedProperty{Name: "extension", Type: "string"},
		completion.ReflectedProperty{Name: "Name", Type: "string"},
	}

	got := completion.UnifyMembers(members, completion.MemberOptions{Prefix: "EX"})

	require.Len(t, got, 2)
	assert.Equal(t, "ExitCode", got[0].Display)
	assert.Equal(t, "extension", got[1].Display)
}

func TestUnifyMembers_ExclusionSet(t *testing.T) {
	t.Parallel()

	members := []completion.Member{
		completion.StructuredDeclaration{Name: "Path", Value: "string"},
		completion.StructuredDeclaration{Name: "Force", Value: "bool"},
	}

	got := completion.UnifyMembers(members, completion.MemberOptions{
		Exclude: map[string]struct{}{"path": {}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Force", got[0].Display)
}

func TestUnifyMembers_MethodParenthesis(t *testing.T) {
	t.Parallel()

	members := []completion.Member{
		completion.ReflectedMethodGroup{Name: "ToString", Overloads: []string{"func() string"}},
	}

	got := completion.UnifyMembers(members, completion.MemberOptions{AddMethodParenthesis: true})

	require.Len(t, got, 1)
	assert.Equal(t, "ToString(", got[0].Replacement)
	assert.Equal(t, "ToString", got[0].Display, "display stays the bare name")
}

func TestUnifyMembers_ConstructorIsNew(t *testing.T) {
	t.Parallel()

	members := []completion.Member{
		completion.NewConstructor("User(name string)"),
		completion.ClassMember{Name: "Save", Method: true, Signature: "Save() error"},
	}

	got := completion.UnifyMembers(members, completion.MemberOptions{Prefix: "n"})

	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Display)
	assert.Equal(t, completion.KindMethod, got[0].Kind)
	assert.Equal(t, "User(name string)", got[0].Tooltip)
}
