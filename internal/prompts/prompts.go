// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package prompts provides interactive terminal prompts for CLI commands.
package prompts

import (
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme returns the huh theme of the init form.
func Theme() *huh.Theme {
	theme := huh.ThemeBase16()
	theme.Focused.Title = theme.Focused.Title.Foreground(accent)
	theme.Blurred.Title = theme.Blurred.Title.Foreground(muted)
	return theme
}

var (
	accent  = lipgloss.Color("#f9ca24")
	muted   = lipgloss.Color("#bababa")
	success = lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
)

// ResultField is a label-value pair for PrintResult.
type ResultField struct {
	Label string
	Value string
}

// PrintResult writes a run or init summary to w, one checked line per
// field. Fields with an empty value are skipped.
func PrintResult(w io.Writer, fields []ResultField, successMsg string) {
	label := lipgloss.NewStyle().Foreground(muted)
	check := success.Render("✓")

	fmt.Fprintln(w)
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", check, label.Render(f.Label+":"), f.Value)
	}
	if successMsg != "" {
		fmt.Fprintln(w, success.Render("\n"+successMsg))
	}
}

// identifierValidator accepts catalog identifiers: a letter or underscore
// followed by letters, digits, underscores or hyphens.
func identifierValidator(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		for i, r := range s {
			if i == 0 && !unicode.IsLetter(r) && r != '_' {
				return errors.New("must start with letter or underscore")
			}
			if i > 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
				return errors.New("must contain only letters, numbers, underscores, hyphens")
			}
		}
		return nil
	}
}

func requiredValidator(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
