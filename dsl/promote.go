package dsl

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// structuralPromotionError is raised at registration time (not at command
// time, per spec §4.2) when Emit[Cmd, Evt] cannot find a one-to-one field
// mapping from Cmd to Evt.
type structuralPromotionError struct {
	from, to reflect.Type
	field    string
	reason   string
}

func (e *structuralPromotionError) Error() string {
	return fmt.Sprintf("dsl: cannot structurally promote %s to %s: field %q %s", e.from, e.to, e.field, e.reason)
}

// checkStructuralPromotion verifies that every exported field of Evt has a
// same-named, same-typed counterpart on Cmd. It panics on mismatch because
// this check runs once, while an aggregate's flow is being constructed —
// a registration-time error, never a runtime one.
func checkStructuralPromotion[Cmd, Evt any]() {
	cmdType := reflect.TypeFor[Cmd]()
	evtType := reflect.TypeFor[Evt]()

	cmdType = indirect(cmdType)
	evtType = indirect(evtType)

	if cmdType.Kind() != reflect.Struct || evtType.Kind() != reflect.Struct {
		panic(&structuralPromotionError{from: cmdType, to: evtType, field: "*", reason: "both types must be structs for structural promotion"})
	}

	for i := 0; i < evtType.NumField(); i++ {
		evtField := evtType.Field(i)
		if !evtField.IsExported() {
			continue
		}
		cmdField, ok := cmdType.FieldByName(evtField.Name)
		if !ok {
			panic(&structuralPromotionError{from: cmdType, to: evtType, field: evtField.Name, reason: "not found on command type"})
		}
		if cmdField.Type != evtField.Type {
			panic(&structuralPromotionError{from: cmdType, to: evtType, field: evtField.Name, reason: fmt.Sprintf("type mismatch (%s vs %s)", cmdField.Type, evtField.Type)})
		}
	}
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// promote copies cmd's fields onto a new Evt by name, using
// github.com/jinzhu/copier. checkStructuralPromotion must already have
// validated the field mapping; promote only performs the runtime copy.
func promote[Cmd, Evt any](cmd Cmd) (Evt, error) {
	var evt Evt
	if err := copier.Copy(&evt, &cmd); err != nil {
		return evt, fmt.Errorf("dsl: structural promotion failed: %w", err)
	}
	return evt, nil
}
