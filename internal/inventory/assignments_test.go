package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignAndReturnScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	assert.Equal(t, models.EquipmentAvailable, reload(t, svc.db, f.eq.ID).Status)

	a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", a.AssignedBy)

	e := reload(t, svc.db, f.eq.ID)
	assert.Equal(t, models.EquipmentAssigned, e.Status)
	require.NotNil(t, e.AssignedToID)
	assert.Equal(t, f.person.ID, *e.AssignedToID)
	assertConsistent(t, svc, f.eq.ID)

	returned, err := svc.ReturnAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.True(t, returned.ReturnDate.Equal(fixedNow))

	e = reload(t, svc.db, f.eq.ID)
	assert.Equal(t, models.EquipmentAvailable, e.Status)
	assert.Nil(t, e.AssignedToID)
	assertConsistent(t, svc, f.eq.ID)

	full, err := svc.GetEquipment(ctx, f.eq.ID)
	require.NoError(t, err)
	require.Len(t, full.Assignments, 1)
	assert.Equal(t, "Ana Gomez", full.Assignments[0].Personnel.FullName())
}

func TestSecondActiveAssignmentConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)
	other := f.newPerson(t, svc, "Luis")

	_, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)

	_, err = svc.CreateAssignment(ctx, activeInput(f.eq.ID, other.ID), "admin")
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Message, "already actively assigned")

	e := reload(t, svc.db, f.eq.ID)
	assert.Equal(t, f.person.ID, *e.AssignedToID)
	assertConsistent(t, svc, f.eq.ID)
}

func TestCreateAssignmentMissingReferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	_, err := svc.CreateAssignment(ctx, activeInput(999, f.person.ID), "admin")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.CreateAssignment(ctx, activeInput(f.eq.ID, 999), "admin")
	assert.True(t, apperrors.IsNotFound(err))

	in := activeInput(f.eq.ID, f.person.ID)
	in.Status = "Lost"
	_, err = svc.CreateAssignment(ctx, in, "admin")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateActiveAssignmentRejectsMaintenance(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	_, err := svc.UpdateEquipment(ctx, f.eq.ID, EquipmentInput{
		Code: "EQ-001", Serial: "SN-001", EquipmentType: "Laptop",
		Status: models.EquipmentMaintenance, DepartmentID: f.dept.ID,
	}, nil)
	require.NoError(t, err)

	_, err = svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.EquipmentMaintenance, reload(t, svc.db, f.eq.ID).Status)
}

func TestNonActiveCreateLeavesEquipmentAlone(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	in := activeInput(f.eq.ID, f.person.ID)
	in.Status = models.AssignmentCancelled
	_, err := svc.CreateAssignment(ctx, in, "admin")
	require.NoError(t, err)

	e := reload(t, svc.db, f.eq.ID)
	assert.Equal(t, models.EquipmentAvailable, e.Status)
	assert.Nil(t, e.AssignedToID)
	assertConsistent(t, svc, f.eq.ID)
}

func TestNonActiveCreateLegacyHolderSync(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, WithLegacyHolderSync(true))
	f := seed(t, svc)

	in := activeInput(f.eq.ID, f.person.ID)
	in.Status = models.AssignmentReturned
	_, err := svc.CreateAssignment(ctx, in, "admin")
	require.NoError(t, err)

	e := reload(t, svc.db, f.eq.ID)
	assert.Equal(t, models.EquipmentAvailable, e.Status)
	require.NotNil(t, e.AssignedToID)
	assert.Equal(t, f.person.ID, *e.AssignedToID)
	assert.NotNil(t, e.AssignmentDate)
}

func TestReturnTwiceFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)
	_, err = svc.ReturnAssignment(ctx, a.ID)
	require.NoError(t, err)
	before := reload(t, svc.db, f.eq.ID)

	_, err = svc.ReturnAssignment(ctx, a.ID)
	var already *apperrors.AlreadyReturnedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, a.ID, already.AssignmentID)

	after := reload(t, svc.db, f.eq.ID)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

	_, err = svc.ReturnAssignment(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReturnKeepsOtherActiveHolder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	in := activeInput(f.eq.ID, f.person.ID)
	in.Status = models.AssignmentCancelled
	cancelled, err := svc.CreateAssignment(ctx, in, "admin")
	require.NoError(t, err)
	_, err = svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)

	_, err = svc.ReturnAssignment(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentAssigned, reload(t, svc.db, f.eq.ID).Status)
	assertConsistent(t, svc, f.eq.ID)
}

func TestEditIntoActiveConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)
	other := f.newPerson(t, svc, "Luis")

	_, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)

	in := activeInput(f.eq.ID, other.ID)
	in.Status = models.AssignmentCancelled
	cancelled, err := svc.CreateAssignment(ctx, in, "admin")
	require.NoError(t, err)

	in.Status = models.AssignmentActive
	_, err = svc.UpdateAssignment(ctx, cancelled.ID, in)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)

	e := reload(t, svc.db, f.eq.ID)
	assert.Equal(t, f.person.ID, *e.AssignedToID)
	assertConsistent(t, svc, f.eq.ID)
}

func TestEditIntoActiveHoldsEquipment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	in := activeInput(f.eq.ID, f.person.ID)
	in.Status = models.AssignmentCancelled
	a, err := svc.CreateAssignment(ctx, in, "admin")
	require.NoError(t, err)

	in.Status = models.AssignmentActive
	_, err = svc.UpdateAssignment(ctx, a.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentAssigned, reload(t, svc.db, f.eq.ID).Status)
	assertConsistent(t, svc, f.eq.ID)
}

func TestEditActiveTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("to returned defaults the return date", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)

		in := activeInput(f.eq.ID, f.person.ID)
		in.Status = models.AssignmentReturned
		updated, err := svc.UpdateAssignment(ctx, a.ID, in)
		require.NoError(t, err)
		require.NotNil(t, updated.ReturnDate)
		assert.True(t, updated.ReturnDate.Equal(fixedNow))
		assert.Equal(t, models.EquipmentAvailable, reload(t, svc.db, f.eq.ID).Status)
		assertConsistent(t, svc, f.eq.ID)
	})

	t.Run("to cancelled releases", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)

		in := activeInput(f.eq.ID, f.person.ID)
		in.Status = models.AssignmentCancelled
		_, err = svc.UpdateAssignment(ctx, a.ID, in)
		require.NoError(t, err)
		assert.Equal(t, models.EquipmentAvailable, reload(t, svc.db, f.eq.ID).Status)
		assertConsistent(t, svc, f.eq.ID)
	})

	t.Run("moving equipment releases the old one", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		monitor := f.newEquipment(t, svc, "EQ-002")
		a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)

		_, err = svc.UpdateAssignment(ctx, a.ID, activeInput(monitor.ID, f.person.ID))
		require.NoError(t, err)

		assert.Equal(t, models.EquipmentAvailable, reload(t, svc.db, f.eq.ID).Status)
		moved := reload(t, svc.db, monitor.ID)
		assert.Equal(t, models.EquipmentAssigned, moved.Status)
		assert.Equal(t, f.person.ID, *moved.AssignedToID)
		assertConsistent(t, svc, f.eq.ID)
		assertConsistent(t, svc, monitor.ID)
	})

	t.Run("changing personnel moves the holder", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		other := f.newPerson(t, svc, "Luis")
		a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)

		in := activeInput(f.eq.ID, other.ID)
		in.AssignmentDate = fixedNow
		_, err = svc.UpdateAssignment(ctx, a.ID, in)
		require.NoError(t, err)

		e := reload(t, svc.db, f.eq.ID)
		assert.Equal(t, other.ID, *e.AssignedToID)
		assert.True(t, e.AssignmentDate.Equal(fixedNow))
		assertConsistent(t, svc, f.eq.ID)
	})

	t.Run("moving onto actively held equipment conflicts", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		monitor := f.newEquipment(t, svc, "EQ-002")
		a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)
		_, err = svc.CreateAssignment(ctx, activeInput(monitor.ID, f.person.ID), "admin")
		require.NoError(t, err)

		_, err = svc.UpdateAssignment(ctx, a.ID, activeInput(monitor.ID, f.person.ID))
		var conflict *apperrors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assertConsistent(t, svc, f.eq.ID)
		assertConsistent(t, svc, monitor.ID)
	})
}

func TestUpdateAssignmentRejectsReturnBeforeAssignment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)
	a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)

	in := activeInput(f.eq.ID, f.person.ID)
	in.Status = models.AssignmentReturned
	early := in.AssignmentDate.Add(-time.Hour)
	in.ReturnDate = &early
	_, err = svc.UpdateAssignment(ctx, a.ID, in)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "return_date", verr.Field)
	assertConsistent(t, svc, f.eq.ID)
}

func TestDeleteAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("active resets equipment", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		a, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteAssignment(ctx, a.ID))
		e := reload(t, svc.db, f.eq.ID)
		assert.Equal(t, models.EquipmentAvailable, e.Status)
		assert.Nil(t, e.AssignedToID)

		_, err = svc.GetAssignment(ctx, a.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("non-active leaves equipment alone", func(t *testing.T) {
		svc := newTestService(t)
		f := seed(t, svc)
		_, err := svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
		require.NoError(t, err)
		in := activeInput(f.eq.ID, f.person.ID)
		in.Status = models.AssignmentCancelled
		cancelled, err := svc.CreateAssignment(ctx, in, "admin")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteAssignment(ctx, cancelled.ID))
		assert.Equal(t, models.EquipmentAssigned, reload(t, svc.db, f.eq.ID).Status)
		assertConsistent(t, svc, f.eq.ID)
	})

	t.Run("missing", func(t *testing.T) {
		svc := newTestService(t)
		err := svc.DeleteAssignment(ctx, 42)
		var nf *apperrors.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestListAssignmentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)

	older := activeInput(f.eq.ID, f.person.ID)
	older.Status = models.AssignmentReturned
	older.AssignmentDate = fixedNow.Add(-72 * time.Hour)
	_, err := svc.CreateAssignment(ctx, older, "admin")
	require.NoError(t, err)
	_, err = svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)

	list, err := svc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.AssignmentActive, list[0].Status)
	assert.Equal(t, "EQ-001", list[0].Equipment.Code)
	assert.Equal(t, "Ana", list[1].Personnel.Name)
}
