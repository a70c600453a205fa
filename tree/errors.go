package tree

import "github.com/c360/machinemodel/merrors"

func merrorsHookFailed(component, node, phase string, err error) error {
	return merrors.Wrap(merrors.HookFailed, err, component, node, phase)
}

func merrorsVetoed(component, node string, err error) error {
	return merrors.New(merrors.Vetoed, component, node, "pre_update veto: %s", err.Error())
}

func merrorsPostVetoed(component, node string, err error) error {
	return merrors.New(merrors.PostVetoed, component, node, "post_update veto: %s", err.Error())
}

func merrorsTypeMismatch(component, node string, expected Kind) error {
	return merrors.New(merrors.TypeMismatch, component, node, "value is not compatible with %s", expected)
}

func merrorsOutOfRange(component, node string, x float64) error {
	return merrors.New(merrors.OutOfRange, component, node, "value %g outside declared bounds", x)
}

func merrorsNotFound(component, operation, format string, args ...any) error {
	return merrors.New(merrors.NotFound, component, operation, format, args...)
}
