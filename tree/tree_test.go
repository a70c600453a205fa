package tree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/c360/machinemodel/merrors"
	"github.com/c360/machinemodel/subscription"
	"github.com/c360/machinemodel/testutil"
	"github.com/c360/machinemodel/tree"
	"github.com/c360/machinemodel/value"
)

func TestReadWriteRoundTrip(t *testing.T) {
	tr, b, _, _, _ := testutil.NewTestTree()

	if _, err := tr.Write(tree.ByID(b.ID()), value.Bool(true)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := tr.Read(tree.ByID(b.ID()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if bv, _ := got.AsBool(); !bv {
		t.Fatal("Read() after Write(true) returned false")
	}
}

func TestResolveByPathIDAndMismatch(t *testing.T) {
	tr, b, _, _, _ := testutil.NewTestTree()

	byPath, err := tr.Resolve(tree.ByPath("root/b"))
	if err != nil {
		t.Fatalf("Resolve(path) error = %v", err)
	}
	if byPath.ID() != b.ID() {
		t.Fatalf("Resolve(path).ID() = %q, want %q", byPath.ID(), b.ID())
	}

	both, err := tr.Resolve(tree.NodeRef{Path: "root/b", ID: b.ID()})
	if err != nil {
		t.Fatalf("Resolve(path+id) error = %v", err)
	}
	if both.ID() != b.ID() {
		t.Fatal("Resolve(path+id) did not return the expected node")
	}

	_, err = tr.Resolve(tree.NodeRef{Path: "root/n", ID: b.ID()})
	if !merrors.Is(err, merrors.AddressMismatch) {
		t.Fatalf("Resolve() with mismatched path/id error = %v, want ADDRESS_MISMATCH", err)
	}

	_, err = tr.Resolve(tree.ByID("does-not-exist"))
	if !merrors.Is(err, merrors.NotFound) {
		t.Fatalf("Resolve(unknown id) error = %v, want NOT_FOUND", err)
	}
}

func TestNumericVariableBounds(t *testing.T) {
	tr, _, n, _, _ := testutil.NewTestTree()

	if _, err := tr.Write(tree.ByID(n.ID()), value.Number(7)); err != nil {
		t.Fatalf("Write(7) error = %v", err)
	}

	_, err := tr.Write(tree.ByID(n.ID()), value.Number(100))
	if !merrors.Is(err, merrors.OutOfRange) {
		t.Fatalf("Write(100) error = %v, want OUT_OF_RANGE", err)
	}

	got, _ := tr.Read(tree.ByID(n.ID()))
	if x, _ := got.AsNumber(); x != 7 {
		t.Fatalf("value after rejected write = %g, want 7 (unchanged)", x)
	}
}

func TestWriteWrongKindIsTypeMismatch(t *testing.T) {
	tr, b, _, _, _ := testutil.NewTestTree()

	_, err := tr.Write(tree.ByID(b.ID()), value.String("nope"))
	if !merrors.Is(err, merrors.TypeMismatch) {
		t.Fatalf("Write(string) on a BooleanVariable error = %v, want TYPE_MISMATCH", err)
	}
}

func TestPreUpdateVetoRejectsWrite(t *testing.T) {
	tr, b, _, _, _ := testutil.NewTestTree()
	b.SetHooks(tree.VariableHooks{
		PreUpdate: func(current, proposed value.Value) error {
			return tree.NewVeto("writes to b are frozen")
		},
	})

	_, err := tr.Write(tree.ByID(b.ID()), value.Bool(true))
	if !merrors.Is(err, merrors.Vetoed) {
		t.Fatalf("Write() error = %v, want VETOED", err)
	}
}

func TestPostUpdateVetoRollsBack(t *testing.T) {
	tr, b, _, _, _ := testutil.NewTestTree()
	b.SetHooks(tree.VariableHooks{
		PostUpdate: func(prev, next value.Value) error {
			return tree.NewPostVeto("downstream check failed")
		},
	})

	_, err := tr.Write(tree.ByID(b.ID()), value.Bool(true))
	if !merrors.Is(err, merrors.PostVetoed) {
		t.Fatalf("Write() error = %v, want POST_VETOED", err)
	}
	got, _ := tr.Read(tree.ByID(b.ID()))
	if bv, _ := got.AsBool(); bv {
		t.Fatal("value was not rolled back after a POST_VETOED write")
	}
}

func TestObjectVariableFieldWiseWrite(t *testing.T) {
	tr, _, _, obj, s := testutil.NewTestTree()

	outcome, err := tr.Write(tree.ByID(obj.ID()), value.Object(map[string]value.Value{
		"s": value.String("hello"),
	}))
	if err != nil {
		t.Fatalf("Write(object) error = %v", err)
	}
	if !outcome.Accepted {
		t.Fatal("Accepted = false, want true")
	}
	if outcome.PerProperty["s"] != nil {
		t.Fatalf("PerProperty[s] = %v, want nil", outcome.PerProperty["s"])
	}

	got, _ := tr.Read(tree.ByID(s.ID()))
	if str, _ := got.AsString(); str != "hello" {
		t.Fatalf("s = %q, want %q", str, "hello")
	}
}

func TestObjectVariableUnknownPropertyDoesNotFailSiblings(t *testing.T) {
	tr, _, _, obj, s := testutil.NewTestTree()

	outcome, err := tr.Write(tree.ByID(obj.ID()), value.Object(map[string]value.Value{
		"s":     value.String("ok"),
		"bogus": value.Number(1),
	}))
	if err != nil {
		t.Fatalf("Write(object) error = %v", err)
	}
	if outcome.PerProperty["s"] != nil {
		t.Fatalf("PerProperty[s] = %v, want nil", outcome.PerProperty["s"])
	}
	if outcome.PerProperty["bogus"] == nil {
		t.Fatal("PerProperty[bogus] = nil, want a NOT_FOUND error")
	}
	got, _ := tr.Read(tree.ByID(s.ID()))
	if str, _ := got.AsString(); str != "ok" {
		t.Fatal("valid sibling property was not applied despite the unknown property failing")
	}
}

func TestHierarchicalNotifyReachesObjectSubscribers(t *testing.T) {
	tr, _, _, obj, s := testutil.NewTestTree()

	rec := testutil.NewRecordingSubscriber()
	obj.Subscriptions().Add("watcher", "", subscription.NewAllFilter(), rec.Callback)

	if _, err := tr.Write(tree.ByID(s.ID()), value.String("changed")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rec.Count() != 1 {
		t.Fatalf("object subscriber saw %d notifications, want 1", rec.Count())
	}
	want := value.Object(map[string]value.Value{"s": value.String("changed")})
	if diff := cmp.Diff(want, rec.Values()[0]); diff != "" {
		t.Fatalf("composed object notification mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveCascadesToDescendants(t *testing.T) {
	tr, _, _, obj, s := testutil.NewTestTree()

	if err := tr.Remove(tree.ByID(obj.ID())); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := tr.Resolve(tree.ByID(obj.ID())); !merrors.Is(err, merrors.NotFound) {
		t.Fatalf("Resolve(removed object) error = %v, want NOT_FOUND", err)
	}
	if _, err := tr.Resolve(tree.ByID(s.ID())); !merrors.Is(err, merrors.NotFound) {
		t.Fatalf("Resolve(removed child) error = %v, want NOT_FOUND", err)
	}
}

func TestNewNumericVariableRejectsInvertedBounds(t *testing.T) {
	tr := tree.New("root", "", nil)
	lower, upper := 10.0, 0.0
	_, err := tr.NewNumericVariable(tr.Root(), "n", "", 5, value.NoUnit, &lower, &upper)
	var merr *merrors.Error
	if !errors.As(err, &merr) || merr.Code != merrors.MalformedModel {
		t.Fatalf("NewNumericVariable(lower>upper) error = %v, want MALFORMED_MODEL", err)
	}
}
