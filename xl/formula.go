package xl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// checkFormulaRefs tokenizes a formula and rejects cell references that
// fall outside the worksheet limits. Names, whole-column and whole-row
// references are accepted as long as their numeric parts are in range.
func checkFormulaRefs(formula string) error {
	ps := efp.ExcelParser()
	for _, tok := range ps.Parse(formula) {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref := tok.TValue
		if i := strings.LastIndexByte(ref, '!'); i >= 0 {
			ref = ref[i+1:]
		}
		parts := strings.Split(ref, ":")
		for _, part := range parts {
			if err := checkRefPart(part, len(parts) > 1); err != nil {
				return fmt.Errorf("formula %q: %w", formula, err)
			}
		}
	}
	return nil
}

// checkRefPart checks one side of a reference. Bare letters are only a
// column inside a range such as "A:C"; on their own they are a name.
func checkRefPart(part string, inRange bool) error {
	s := strings.ReplaceAll(part, "$", "")
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	letters, digits := s[:i], s[i:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			// a defined name or function-like operand, not a reference
			return nil
		}
	}
	if len(letters) > 3 || digits == "" && !inRange {
		// a name such as "TAX2024" or "XYZ"
		return nil
	}
	if letters != "" {
		col := 0
		for k := 0; k < len(letters); k++ {
			col = col*26 + int(upper(letters[k])-'A'+1)
		}
		if col > MaxColumns {
			return fmt.Errorf("%w: column %s", ErrInvalidCoordinate, letters)
		}
	}
	if digits != "" {
		row, err := strconv.Atoi(digits)
		if err != nil || row < 1 || row > MaxRows {
			return fmt.Errorf("%w: row %s", ErrInvalidCoordinate, digits)
		}
	}
	return nil
}
