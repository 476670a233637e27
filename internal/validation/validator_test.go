// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package validation

import (
	"strings"
	"testing"
)

type listQuery struct {
	Page int    `validate:"min=1"`
	Sort string `validate:"omitempty,oneof=newest oldest"`
}

func TestValidateStruct_Valid(t *testing.T) {
	if err := ValidateStruct(&listQuery{Page: 1, Sort: "newest"}); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
	if err := ValidateStruct(&listQuery{Page: 3}); err != nil {
		t.Errorf("expected empty sort to pass omitempty, got %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	err := ValidateStruct(&listQuery{Page: 0, Sort: "sideways"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verrs, ok := err.(*Errors)
	if !ok {
		t.Fatalf("expected *Errors, got %T", err)
	}
	if len(verrs.Fields()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(verrs.Fields()))
	}
	if !strings.Contains(err.Error(), "Page must be at least 1") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "one of") {
		t.Errorf("expected oneof message, got %q", err.Error())
	}
}
