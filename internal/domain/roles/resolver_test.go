package roles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tapinhq/tapin/internal/domain/accounts"
	"github.com/tapinhq/tapin/internal/domain/faults"
	"github.com/tapinhq/tapin/internal/domain/identity"
)

type fakeDirectory struct {
	owner    bool
	customer bool
	err      error
}

func (f *fakeDirectory) FindOwner(context.Context, string) (*accounts.OwnerAccount, error) {
	return nil, nil
}

func (f *fakeDirectory) FindCustomer(context.Context, string) (*accounts.CustomerAccount, error) {
	return nil, nil
}

func (f *fakeDirectory) LookupKinds(context.Context, string) (bool, bool, error) {
	return f.owner, f.customer, f.err
}

func (f *fakeDirectory) InsertOwner(context.Context, accounts.OwnerAccount) error { return nil }

func (f *fakeDirectory) InsertCustomer(context.Context, accounts.CustomerAccount) error {
	return nil
}

type recordingAlerter struct {
	faults []string
}

func (r *recordingAlerter) RoleIntegrityFault(_ context.Context, id string) {
	r.faults = append(r.faults, id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		dir         fakeDirectory
		want        RoleState
		wantErr     error
		wantAlerted bool
	}{
		{name: "no records means unresolved", want: Unresolved},
		{name: "owner record", dir: fakeDirectory{owner: true}, want: Owner},
		{name: "customer record", dir: fakeDirectory{customer: true}, want: Customer},
		{
			name:        "both records prefers owner and flags fault",
			dir:         fakeDirectory{owner: true, customer: true},
			want:        Owner,
			wantAlerted: true,
		},
		{
			name:    "store failure is not unresolved",
			dir:     fakeDirectory{err: faults.ErrUnavailable},
			want:    Unresolved,
			wantErr: faults.ErrUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			alerts := &recordingAlerter{}
			r := NewResolver(&tc.dir, testLogger(), alerts)

			got, err := r.Resolve(context.Background(), identity.Identity{ID: "U1"})

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
			if tc.wantAlerted != (len(alerts.faults) == 1) {
				t.Errorf("alerted=%v, expected %v", len(alerts.faults) == 1, tc.wantAlerted)
			}
		})
	}
}
