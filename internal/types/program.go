package types

import "github.com/sunholo/eggolog/internal/core"

// TypecheckProgram walks a fully desugared command stream, registering
// every sort/function/global declaration into ti as it goes (so later
// commands see earlier ones, mirroring the interleaved desugar-then-
// typecheck order original_source/src/typechecking.rs's typecheck_program
// uses) and resolving sorts for every rule, check, and action.
func (ti *TypeInfo) TypecheckProgram(cmds []core.NormCommand) error {
	for _, c := range cmds {
		if err := ti.typecheckCommand(c); err != nil {
			return err
		}
	}
	return nil
}

func (ti *TypeInfo) typecheckCommand(c core.NormCommand) error {
	switch c.Kind {
	case "sort":
		if c.Sort == nil {
			return nil
		}
		return ti.DeclareSort(c.Sort.Name, c.Sort.Presort)
	case "function":
		if c.Function == nil {
			return nil
		}
		f := c.Function
		if err := ti.DeclareFunction(FuncType{
			Name:       f.Name,
			Input:      f.Schema.Input,
			Output:     f.Schema.Output,
			IsDatatype: f.IsDatatype,
			HasDefault: f.Default != nil,
		}); err != nil {
			return err
		}
		if len(f.Schema.Input) == 0 {
			return ti.DeclareGlobal(f.Name, f.Schema.Output)
		}
		return nil
	case "rule":
		if c.Rule == nil {
			return nil
		}
		_, err := ti.TypecheckRule(c.Rule.Rule)
		return err
	case "check":
		if c.Check == nil {
			return nil
		}
		_, err := ti.TypecheckRule(core.NormRule{Body: c.Check.Facts})
		return err
	case "action", "define", "extract-eval":
		if c.Action == nil {
			return nil
		}
		_, err := ti.TypecheckRule(core.NormRule{Head: []core.NormAction{c.Action}})
		return err
	case "fail":
		// A fail-wrapped command is expected to fail typechecking (or
		// execution); this front end only validates its desugared shape
		// exists, matching spec.md's note that success/failure polarity
		// of `fail` is a runtime concern out of scope here.
		return nil
	default:
		return nil
	}
}
