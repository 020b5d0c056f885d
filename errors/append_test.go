package errors

import (
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs     []error
		wantNil  bool
		wantCode uint32
		wantSize int
	}{
		"no errors": {
			wantNil: true,
		},
		"only nil errors": {
			errs:    []error{nil, (*Error)(nil)},
			wantNil: true,
		},
		"single error is returned as it is": {
			errs:     []error{nil, ErrEmpty},
			wantCode: ErrEmpty.code,
			wantSize: 1,
		},
		"first error defines the code": {
			errs:     []error{Wrap(ErrInvalidAmount, "zero"), ErrEmpty},
			wantCode: ErrInvalidAmount.code,
			wantSize: 2,
		},
		"clubbed errors are flattened": {
			errs:     []error{Append(ErrEmpty, ErrDuplicate), ErrInvalidInput},
			wantCode: ErrEmpty.code,
			wantSize: 3,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Append(tc.errs...)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %v", err)
				}
				return
			}
			if got := abciCode(err); got != tc.wantCode {
				t.Fatalf("want %d code, got %d", tc.wantCode, got)
			}
			size := 1
			if m, ok := err.(multiErr); ok {
				size = len(m)
			}
			if size != tc.wantSize {
				t.Fatalf("want %d errors, got %d", tc.wantSize, size)
			}
		})
	}
}
