package flow

// StepKind tags which control-flow step variant a Step holds.
type StepKind int

const (
	StepWrite StepKind = iota
	StepRead
	StepWait
	StepCallAsync
	StepBranch
)

// Step is a tagged variant of the five control-flow step kinds a composite
// method's graph is built from. Exactly one payload field is populated per
// Kind.
type Step struct {
	Kind StepKind

	Write     *WriteStep
	Read      *ReadStep
	Wait      *WaitStep
	CallAsync *CallAsyncStep
	Branch    *BranchStep
}

// WriteStep evaluates ValueExpr against the current frame, then writes it
// to Target.
type WriteStep struct {
	Target    string // node path, resolved by the engine with tree.ByPath
	ValueExpr Expr
}

// ReadStep reads Source and binds the result under StoreAs in the frame.
type ReadStep struct {
	Source  string
	StoreAs string
}

// WaitStep suspends the scope until Source's value satisfies the predicate
// `Source Operator RHSExpr`.
type WaitStep struct {
	Source   string
	Operator Operator
	RHSExpr  Expr
}

// CallAsyncStep invokes an AsyncMethod and binds its immediate
// acknowledgement under StoreReturnsAs, if given.
type CallAsyncStep struct {
	Method         string
	ArgsExpr       []Expr
	StoreReturnsAs string
}

// BranchStep advances non-linearly within the graph: PredicateExpr is
// evaluated as a boolean and selects IfTrueIndex or IfFalseIndex as the
// next program counter.
type BranchStep struct {
	PredicateExpr Expr
	IfTrueIndex   int
	IfFalseIndex  int
}

func NewWriteStep(target string, v Expr) Step {
	return Step{Kind: StepWrite, Write: &WriteStep{Target: target, ValueExpr: v}}
}

func NewReadStep(source, storeAs string) Step {
	return Step{Kind: StepRead, Read: &ReadStep{Source: source, StoreAs: storeAs}}
}

func NewWaitStep(source string, op Operator, rhs Expr) Step {
	return Step{Kind: StepWait, Wait: &WaitStep{Source: source, Operator: op, RHSExpr: rhs}}
}

func NewCallAsyncStep(method string, args []Expr, storeReturnsAs string) Step {
	return Step{Kind: StepCallAsync, CallAsync: &CallAsyncStep{Method: method, ArgsExpr: args, StoreReturnsAs: storeReturnsAs}}
}

func NewBranchStep(predicate Expr, ifTrue, ifFalse int) Step {
	return Step{Kind: StepBranch, Branch: &BranchStep{PredicateExpr: predicate, IfTrueIndex: ifTrue, IfFalseIndex: ifFalse}}
}
