package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentService_CreateThenGet(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.uow, env.audit, env.log)
	ctx := context.Background()

	created, err := svc.Create(ctx, &department.CreateDepartmentCommand{Name: "  Cardiology ", Description: "heart"}, adminCaller())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID, adminCaller())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Cardiology", got.Name)
	assert.Equal(t, "heart", got.Description)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestDepartmentService_UpdateKeepsCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.uow, env.audit, env.log)
	ctx := context.Background()

	original := time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
	id := uuid.New()
	require.NoError(t, env.uow.departments.Create(ctx, &department.Department{ID: id, CreatedAt: original, Name: "Radiology"}))

	name := "Imaging"
	updated, err := svc.Update(ctx, id, &department.UpdateDepartmentCommand{ID: &id, Name: &name}, adminCaller())
	require.NoError(t, err)
	assert.Equal(t, "Imaging", updated.Name)
	assert.True(t, original.Equal(updated.CreatedAt))

	got, err := svc.Get(ctx, id, adminCaller())
	require.NoError(t, err)
	assert.Equal(t, "Imaging", got.Name)
	assert.True(t, original.Equal(got.CreatedAt))
}

func TestDepartmentService_UpdateMissing(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDepartmentService(env.uow, env.audit, env.log)

	name := "Imaging"
	_, err := svc.Update(context.Background(), uuid.New(), &department.UpdateDepartmentCommand{Name: &name}, adminCaller())
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}
