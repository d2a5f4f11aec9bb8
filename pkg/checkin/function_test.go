package checkin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFunctionSource(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name: "basic_block_with_tables",
			source: strings.Join([]string{
				"FUNCTION Z.",
				`*"----`,
				`*"*"Local Interface:`,
				`*"  IMPORTING`,
				`*"     VALUE(IV_X) TYPE STRING`,
				`*"  TABLES`,
				`*"     ET_Y STRUCTURE STRING`,
				`*"----`,
				"ENDFUNCTION.",
			}, "\n"),
			expected: strings.Join([]string{
				"FUNCTION Z",
				"IMPORTING",
				"VALUE(IV_X) TYPE STRING",
				"TABLES",
				"ET_Y TYPE STRING",
				".",
				"ENDFUNCTION.",
			}, "\n"),
		},
		{
			name: "all_sections_in_declaration_order",
			source: strings.Join([]string{
				"FUNCTION ztest_function.",
				`*"----------------------------------------------------------------------`,
				`*"*"Local Interface:`,
				`*"  EXCEPTIONS`,
				`*"     NOT_FOUND`,
				`*"  IMPORTING`,
				`*"     VALUE(IV_PARAM1) TYPE  STRING`,
				`*"  EXPORTING`,
				`*"     VALUE(EV_PARAM2) TYPE  STRING`,
				`*"  CHANGING`,
				`*"     CV_PARAM3 TYPE I`,
				`*"----------------------------------------------------------------------`,
				"  cv_param3 = 1.",
				"ENDFUNCTION.",
			}, "\n"),
			expected: strings.Join([]string{
				"FUNCTION ztest_function",
				"IMPORTING",
				"VALUE(IV_PARAM1) TYPE  STRING",
				"EXPORTING",
				"VALUE(EV_PARAM2) TYPE  STRING",
				"CHANGING",
				"CV_PARAM3 TYPE I",
				"EXCEPTIONS",
				"NOT_FOUND",
				".",
				"  cv_param3 = 1.",
				"ENDFUNCTION.",
			}, "\n"),
		},
		{
			name: "no_parameter_block_returned_unchanged",
			source: strings.Join([]string{
				"FUNCTION znop",
				".",
				"ENDFUNCTION.",
			}, "\n"),
			expected: strings.Join([]string{
				"FUNCTION znop",
				".",
				"ENDFUNCTION.",
			}, "\n"),
		},
		{
			name: "empty_sections_are_dropped",
			source: strings.Join([]string{
				"FUNCTION zempty.",
				`*"----`,
				`*"  IMPORTING`,
				`*"  EXPORTING`,
				`*"  TABLES`,
				`*"     T_DATA STRUCTURE STRING`,
				`*"----`,
				"ENDFUNCTION.",
			}, "\n"),
			expected: strings.Join([]string{
				"FUNCTION zempty",
				"TABLES",
				"T_DATA TYPE STRING",
				".",
				"ENDFUNCTION.",
			}, "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFunctionSource(tt.source))
		})
	}
}

func TestFormatFunctionSource_Idempotent(t *testing.T) {
	source := strings.Join([]string{
		"FUNCTION Z.",
		`*"----`,
		`*"  IMPORTING`,
		`*"     VALUE(IV_X) TYPE STRING`,
		`*"----`,
		"ENDFUNCTION.",
	}, "\n")

	once := FormatFunctionSource(source)
	twice := FormatFunctionSource(once)

	assert.Equal(t, once, twice)
}

func TestParseFunctionParameters_TablesStructureRewrite(t *testing.T) {
	block := []string{
		`*"----`,
		`*"  TABLES`,
		`*"     ET_PLAIN TYPE STRING`,
		`*"     ET_CONVERTED STRUCTURE ZROW`,
	}

	parameters := parseFunctionParameters(block)

	assert.Equal(t, []string{"ET_PLAIN TYPE STRING", "ET_CONVERTED TYPE ZROW"}, parameters["TABLES"])
}
