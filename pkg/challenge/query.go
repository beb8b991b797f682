package challenge

import (
	"strconv"
	"strings"
	"unicode"
)

// SQLQuery answers question 2 (even registration numbers): for every
// employee, how many employees in the same department are younger.
const SQLQuery = "SELECT " +
	"  e1.EMP_ID, " +
	"  e1.FIRST_NAME, " +
	"  e1.LAST_NAME, " +
	"  d.DEPARTMENT_NAME, " +
	"  COALESCE(COUNT(e2.EMP_ID), 0) AS YOUNGER_EMPLOYEES_COUNT " +
	"FROM EMPLOYEE e1 " +
	"LEFT JOIN DEPARTMENT d " +
	"  ON e1.DEPARTMENT = d.DEPARTMENT_ID " +
	"LEFT JOIN EMPLOYEE e2 " +
	"  ON e1.DEPARTMENT = e2.DEPARTMENT " +
	"  AND e2.DOB > e1.DOB " +
	"GROUP BY " +
	"  e1.EMP_ID, e1.FIRST_NAME, e1.LAST_NAME, d.DEPARTMENT_NAME " +
	"ORDER BY e1.EMP_ID DESC;"

// SolvedQuestion is the question SQLQuery answers.
const SolvedQuestion = 2

func FinalQuery() string {
	return SQLQuery
}

// QuestionFor returns the question assigned to a registration number: odd
// last two digits get question 1, even ones question 2. The second return is
// false when regNo does not end in a digit.
func QuestionFor(regNo string) (int, bool) {
	regNo = strings.TrimSpace(regNo)

	end := len(regNo)
	start := end
	for start > 0 && end-start < 2 && unicode.IsDigit(rune(regNo[start-1])) {
		start--
	}
	if start == end {
		return 0, false
	}

	n, err := strconv.Atoi(regNo[start:end])
	if err != nil {
		return 0, false
	}

	if n%2 == 1 {
		return 1, true
	}
	return 2, true
}
