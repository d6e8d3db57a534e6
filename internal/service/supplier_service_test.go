package service

import (
	"context"
	"testing"

	"erp-pdv-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierService_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Acme"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	other, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Globex"})
	require.NoError(t, err)

	rename := "Acme"
	_, err = env.supplierSvc.UpdateSupplier(ctx, tester, other.ID, &UpdateSupplierRequest{Name: &rename})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	got, err := env.supplierSvc.GetSupplierByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.Name)
}

func TestSupplierService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	s, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Acme"})
	require.NoError(t, err)

	bad := "nope"
	_, err = env.supplierSvc.UpdateSupplier(ctx, tester, s.ID, &UpdateSupplierRequest{Email: &bad})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	blank := " "
	_, err = env.supplierSvc.UpdateSupplier(ctx, tester, s.ID, &UpdateSupplierRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = env.supplierSvc.UpdateSupplier(ctx, tester, 999, &UpdateSupplierRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupplierService_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{
		Name: "Acme", Document: "12.345.678/0001-90", Phone: "11 5555-0000", Email: "sales@acme.test",
	})
	require.NoError(t, err)

	phone := "11 5555-9999"
	updated, err := env.supplierSvc.UpdateSupplier(ctx, tester, s.ID, &UpdateSupplierRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "12.345.678/0001-90", updated.Document)
	assert.Equal(t, "11 5555-9999", updated.Phone)
	assert.Equal(t, "sales@acme.test", updated.Email)

	// renaming to its own name is not a duplicate
	same := "Acme"
	_, err = env.supplierSvc.UpdateSupplier(ctx, tester, s.ID, &UpdateSupplierRequest{Name: &same})
	require.NoError(t, err)

	all, err := env.supplierSvc.GetAllSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "11 5555-9999", all[0].Phone)
}

func TestSupplierService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	linked, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Acme"})
	require.NoError(t, err)
	free, err := env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Globex"})
	require.NoError(t, err)

	p, err := env.inventory.CreateProduct(ctx, tester, &ProductRequest{Name: "Anvil", SupplierID: &linked.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, env.supplierSvc.DeleteSupplier(ctx, tester, linked.ID), ErrConflict)

	// soft-deleted products still hold the reference
	require.NoError(t, env.inventory.DeleteProduct(ctx, tester, p.ID))
	assert.ErrorIs(t, env.supplierSvc.DeleteSupplier(ctx, tester, linked.ID), ErrConflict)

	require.NoError(t, env.supplierSvc.DeleteSupplier(ctx, tester, free.ID))
	assert.ErrorIs(t, env.supplierSvc.DeleteSupplier(ctx, tester, free.ID), ErrNotFound)

	// the name can be registered again
	_, err = env.supplierSvc.CreateSupplier(ctx, tester, &CreateSupplierRequest{Name: "Globex"})
	require.NoError(t, err)

	entries, err := env.audits.FindRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditSupplierDelete, entries[0].Action)
}
