// Package dberr はデータアクセス層が返却するエラー種別を定義します。
//
// 呼び出し元は errors.Is で種別を判定し、errors.As で詳細 (欠落フィールド名や
// 元のドライバエラー) を取り出します。
package dberr

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField は I/O 前の必須項目チェックに失敗した場合の種別です。
	ErrMissingField = errors.New("missing field")
	// ErrDatabase はドライバ・SQL 実行の失敗を表す汎用的な種別です。
	ErrDatabase = errors.New("database error")
	// ErrIntegrityViolation は削除時の制約違反または対象不在を表す種別です。
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrNoRowsAffected は書き込みが 1 行も反映されなかったことを表す原因エラーです。
	ErrNoRowsAffected = errors.New("no rows affected")
	// ErrReferenced は他テーブルから参照されている行を削除しようとした原因エラーです。
	ErrReferenced = errors.New("row is still referenced")
)

// MissingFieldError は必須項目の欠落を表します。
type MissingFieldError struct {
	Entity string
	Field  string
}

// MissingField は MissingFieldError を生成します。
func MissingField(entity, field string) error {
	return &MissingFieldError{Entity: entity, Field: field}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s can't be null", e.Entity, e.Field)
}

// Is は ErrMissingField との比較を可能にします。
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// DatabaseError は操作名と元のエラーを保持します。
type DatabaseError struct {
	Op  string
	Err error
}

// Database は op の失敗を DatabaseError で包みます。err が nil の場合は nil を返します。
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseError{Op: op, Err: err}
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Is は ErrDatabase との比較を可能にします。
func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

// IntegrityError は参照整合性に関わる失敗を表します。
type IntegrityError struct {
	Op  string
	Err error
}

// Integrity は op の失敗を IntegrityError で包みます。err が nil の場合は nil を返します。
func Integrity(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IntegrityError{Op: op, Err: err}
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// Is は ErrIntegrityViolation との比較を可能にします。
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityViolation
}
