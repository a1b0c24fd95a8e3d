package model

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// scheduleEnv is the variable set visible to schedule filter expressions.
type scheduleEnv struct {
	ID       int64  `expr:"id"`
	VideoRef string `expr:"videoRef"`
	Date     string `expr:"date"`
	Time     string `expr:"time"`
	Caption  string `expr:"caption"`
	Status   string `expr:"status"`
}

// ScheduleFilter is a compiled boolean expression over schedule fields, e.g.
// `status == "scheduled" && date >= "2024-05-01"`.
type ScheduleFilter struct {
	source  string
	program *vm.Program
}

// CompileScheduleFilter compiles where. An empty expression matches everything.
func CompileScheduleFilter(where string) (*ScheduleFilter, error) {
	f := &ScheduleFilter{source: where}
	if where == "" {
		return f, nil
	}
	program, err := expr.Compile(where, expr.Env(scheduleEnv{}), expr.AsBool())
	if err != nil {
		return nil, Invalid("where", "invalid filter expression: %v", err)
	}
	f.program = program
	return f, nil
}

// Match reports whether the entry satisfies the filter.
func (f *ScheduleFilter) Match(e ScheduleEntry) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, scheduleEnv{
		ID:       e.ID,
		VideoRef: e.VideoRef,
		Date:     e.Date,
		Time:     e.Time,
		Caption:  e.Caption,
		Status:   string(e.Status),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the entries matching the filter, preserving order.
func (f *ScheduleFilter) Apply(entries []ScheduleEntry) ([]ScheduleEntry, error) {
	out := make([]ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}
