// Package builtin ships the reference actions of dataprep.
package builtin

import (
	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
)

// RegisterAll registers every builtin action into reg.
func RegisterAll(reg *action.Registry) error {
	factories := map[string]action.Factory{
		UpperCaseName:         func() action.Action { return &UpperCase{} },
		LowerCaseName:         func() action.Action { return &LowerCase{} },
		TrimName:              func() action.Action { return &Trim{} },
		RenameName:            func() action.Action { return &Rename{} },
		FillEmptyName:         func() action.Action { return &FillEmpty{} },
		DeleteEmptyName:       func() action.Action { return &DeleteEmpty{} },
		CopyName:              func() action.Action { return &Copy{} },
		ComputeLengthName:     func() action.Action { return &ComputeLength{} },
		ChangeDatePatternName: func() action.Action { return &ChangeDatePattern{} },
	}
	for name, f := range factories {
		if err := reg.Register(name, f); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every builtin action.
func NewRegistry() *action.Registry {
	reg := action.NewRegistry()
	if err := RegisterAll(reg); err != nil {
		panic(err)
	}
	return reg
}

func anyColumn(dataset.ColumnMetadata) bool { return true }

func textColumn(col dataset.ColumnMetadata) bool {
	return col.Type == dataset.TypeString || col.Type == dataset.TypeAny
}

// mapCell applies fn to the target cell when the row holds a value for it.
func mapCell(row *dataset.Row, ac *action.Context, fn func(string) string) *dataset.Row {
	id := ac.ColumnID()
	if row.Has(id) {
		row.Set(id, fn(row.Get(id)))
	}
	return row
}
