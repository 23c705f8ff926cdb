package handler

import (
	"fmt"
	"math"
	"time"

	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	"google.golang.org/protobuf/types/known/structpb"
)

// DateLayout は birth_date の表現形式です。
const DateLayout = "2006-01-02"

// maxExactInteger は float64 で誤差なく表せる整数の上限です。
const maxExactInteger = 1 << 53

func toStructDepartment(d *department.Department) *structpb.Value {
	if d == nil {
		return structpb.NewNullValue()
	}
	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"id":   structpb.NewNumberValue(float64(d.ID)),
			"name": structpb.NewStringValue(d.Name),
		},
	})
}

func toStructSeller(s *seller.Seller) *structpb.Struct {
	if s == nil {
		return nil
	}

	birthDate := structpb.NewNullValue()
	if !s.BirthDate.IsZero() {
		birthDate = structpb.NewStringValue(s.BirthDate.Format(DateLayout))
	}

	baseSalary := structpb.NewNullValue()
	if s.BaseSalary != nil {
		baseSalary = structpb.NewNumberValue(*s.BaseSalary)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"id":          structpb.NewNumberValue(float64(s.ID)),
			"name":        structpb.NewStringValue(s.Name),
			"email":       structpb.NewStringValue(s.Email),
			"birth_date":  birthDate,
			"base_salary": baseSalary,
			"department":  toStructDepartment(s.Department),
		},
	}
}

// fieldValue は未設定と null を区別せず nil として返します。
func fieldValue(s *structpb.Struct, key string) *structpb.Value {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	return v
}

func stringField(s *structpb.Struct, key string) (string, error) {
	v := fieldValue(s, key)
	if v == nil {
		return "", nil
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", errInvalidRequest, key)
	}
	return str.StringValue, nil
}

func int64Field(s *structpb.Struct, key string) (int64, error) {
	v := fieldValue(s, key)
	if v == nil {
		return 0, nil
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", errInvalidRequest, key)
	}
	n := num.NumberValue
	if n != math.Trunc(n) || math.Abs(n) > maxExactInteger {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, key)
	}
	return int64(n), nil
}

func floatField(s *structpb.Struct, key string) (*float64, error) {
	v := fieldValue(s, key)
	if v == nil {
		return nil, nil
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a number", errInvalidRequest, key)
	}
	value := num.NumberValue
	return &value, nil
}

func dateField(s *structpb.Struct, key string) (time.Time, error) {
	raw, err := stringField(s, key)
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be formatted as %s", errInvalidRequest, key, DateLayout)
	}
	return t, nil
}

// departmentIDField は department_id もしくは department.id を読み取ります。
func departmentIDField(s *structpb.Struct) (int64, error) {
	if v := fieldValue(s, "department_id"); v != nil {
		return int64Field(s, "department_id")
	}

	v := fieldValue(s, "department")
	if v == nil {
		return 0, nil
	}
	nested, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return 0, fmt.Errorf("%w: department must be an object", errInvalidRequest)
	}
	return int64Field(nested.StructValue, "id")
}

type sellerMessage struct {
	id           int64
	name         string
	email        string
	birthDate    time.Time
	baseSalary   *float64
	departmentID int64
}

func parseSellerMessage(s *structpb.Struct) (sellerMessage, error) {
	var (
		msg sellerMessage
		err error
	)

	if msg.id, err = int64Field(s, "id"); err != nil {
		return sellerMessage{}, err
	}
	if msg.name, err = stringField(s, "name"); err != nil {
		return sellerMessage{}, err
	}
	if msg.email, err = stringField(s, "email"); err != nil {
		return sellerMessage{}, err
	}
	if msg.birthDate, err = dateField(s, "birth_date"); err != nil {
		return sellerMessage{}, err
	}
	if msg.baseSalary, err = floatField(s, "base_salary"); err != nil {
		return sellerMessage{}, err
	}
	if msg.departmentID, err = departmentIDField(s); err != nil {
		return sellerMessage{}, err
	}

	return msg, nil
}
