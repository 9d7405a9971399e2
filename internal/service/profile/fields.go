package profile

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// fieldColumn binds one editable attribute to its column.
type fieldColumn struct {
	name  string
	value func(f *Fields) any
	dest  func(f *Fields) any
}

func stringColumn(name string, ref func(f *Fields) *string) fieldColumn {
	return fieldColumn{
		name:  name,
		value: func(f *Fields) any { return *ref(f) },
		dest:  func(f *Fields) any { return &nullString{dst: ref(f)} },
	}
}

func flagColumn(name string, ref func(f *Fields) *bool) fieldColumn {
	return fieldColumn{
		name:  name,
		value: func(f *Fields) any { return encodeFlag(*ref(f)) },
		dest:  func(f *Fields) any { return &tinyFlag{dst: ref(f)} },
	}
}

// fieldColumns is shared by the extended record and the edit history, in
// column order.
var fieldColumns = []fieldColumn{
	stringColumn("full_name", func(f *Fields) *string { return &f.FullName }),
	stringColumn("email", func(f *Fields) *string { return &f.Email }),
	stringColumn("gender", func(f *Fields) *string { return &f.Gender }),
	stringColumn("date_of_birth", func(f *Fields) *string { return &f.DateOfBirth }),
	stringColumn("nationality", func(f *Fields) *string { return &f.Nationality }),
	stringColumn("country_of_residence", func(f *Fields) *string { return &f.CountryOfResidence }),
	flagColumn("other_nationalities", func(f *Fields) *bool { return &f.OtherNationalities }),
	stringColumn("specified_other_nationalities", func(f *Fields) *string { return &f.SpecifiedOtherNationalities }),
	stringColumn("national_id_number", func(f *Fields) *string { return &f.NationalIDNumber }),
	stringColumn("national_id_expiry", func(f *Fields) *string { return &f.NationalIDExpiry }),
	stringColumn("passport_number", func(f *Fields) *string { return &f.PassportNumber }),
	stringColumn("passport_expiry", func(f *Fields) *string { return &f.PassportExpiry }),
	stringColumn("address", func(f *Fields) *string { return &f.Address }),
	stringColumn("state", func(f *Fields) *string { return &f.State }),
	stringColumn("city", func(f *Fields) *string { return &f.City }),
	stringColumn("zip_code", func(f *Fields) *string { return &f.ZipCode }),
	stringColumn("contact_number", func(f *Fields) *string { return &f.ContactNumber }),
	stringColumn("dialing_code", func(f *Fields) *string { return &f.DialingCode }),
	stringColumn("work_type", func(f *Fields) *string { return &f.WorkType }),
	stringColumn("industry", func(f *Fields) *string { return &f.Industry }),
	stringColumn("product_type_offered", func(f *Fields) *string { return &f.ProductTypeOffered }),
	stringColumn("product_offered", func(f *Fields) *string { return &f.ProductOffered }),
	stringColumn("company_name", func(f *Fields) *string { return &f.CompanyName }),
	stringColumn("position_in_company", func(f *Fields) *string { return &f.PositionInCompany }),
}

func fieldColumnNames() []string {
	names := make([]string, len(fieldColumns))
	for i, c := range fieldColumns {
		names[i] = c.name
	}
	return names
}

func fieldValues(f *Fields) []any {
	values := make([]any, len(fieldColumns))
	for i, c := range fieldColumns {
		values[i] = c.value(f)
	}
	return values
}

func fieldDests(f *Fields) []any {
	dests := make([]any, len(fieldColumns))
	for i, c := range fieldColumns {
		dests[i] = c.dest(f)
	}
	return dests
}

// assignments renders "a = ?, b = ?" for an UPDATE.
func assignments(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + " = ?"
	}
	return strings.Join(parts, ", ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func encodeFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString scans a nullable text column, mapping NULL to "".
type nullString struct {
	dst *string
}

func (n *nullString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n.dst = ""
	case string:
		*n.dst = v
	case []byte:
		*n.dst = string(v)
	default:
		return fmt.Errorf("scan %T into string", src)
	}
	return nil
}

// tinyFlag scans a TINYINT(1) column; only the value 1 is true.
type tinyFlag struct {
	dst *bool
}

func (t *tinyFlag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t.dst = false
	case int64:
		*t.dst = v == 1
	case bool:
		*t.dst = v
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan flag: %w", err)
		}
		*t.dst = n == 1
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan flag: %w", err)
		}
		*t.dst = n == 1
	default:
		return fmt.Errorf("scan %T into flag", src)
	}
	return nil
}

var (
	_ sql.Scanner = (*nullString)(nil)
	_ sql.Scanner = (*tinyFlag)(nil)
)
