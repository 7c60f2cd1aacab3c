package inventory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"inventory-tracker/internal/config"
	"inventory-tracker/internal/database"
	"inventory-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	db, err := database.Open(&config.Config{
		DBDriver:          config.DriverSQLite,
		DBDSN:             filepath.Join(t.TempDir(), "inventory.db"),
		DBConnectAttempts: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(db, opts...)
}

type fixture struct {
	dept   *models.Department
	person *models.Personnel
	eq     *models.Equipment
}

// seed creates the IT department, Ana Gomez and the laptop EQ-001.
func seed(t *testing.T, svc *Service) fixture {
	t.Helper()
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, DepartmentInput{Name: "IT"})
	require.NoError(t, err)
	person, err := svc.CreatePersonnel(ctx, PersonnelInput{Name: "Ana", LastName: "Gomez", DepartmentID: dept.ID})
	require.NoError(t, err)
	eq, err := svc.CreateEquipment(ctx, EquipmentInput{
		Code: "EQ-001", Serial: "SN-001", EquipmentType: "Laptop", DepartmentID: dept.ID,
	}, nil)
	require.NoError(t, err)
	return fixture{dept: dept, person: person, eq: eq}
}

func (f fixture) newEquipment(t *testing.T, svc *Service, code string) *models.Equipment {
	t.Helper()
	eq, err := svc.CreateEquipment(context.Background(), EquipmentInput{
		Code: code, Serial: "SN-" + code, EquipmentType: "Monitor", DepartmentID: f.dept.ID,
	}, nil)
	require.NoError(t, err)
	return eq
}

func (f fixture) newPerson(t *testing.T, svc *Service, name string) *models.Personnel {
	t.Helper()
	p, err := svc.CreatePersonnel(context.Background(), PersonnelInput{Name: name, LastName: "Test", DepartmentID: f.dept.ID})
	require.NoError(t, err)
	return p
}

func activeInput(eqID, personID uint) AssignmentInput {
	return AssignmentInput{
		EquipmentID:    eqID,
		PersonnelID:    personID,
		AssignmentDate: fixedNow.Add(-24 * time.Hour),
		Status:         models.AssignmentActive,
	}
}

func reload(t *testing.T, db *gorm.DB, id uint) models.Equipment {
	t.Helper()
	var e models.Equipment
	require.NoError(t, db.First(&e, id).Error)
	return e
}

// assertConsistent checks that status, holder and the Active assignment of the
// equipment agree with each other.
func assertConsistent(t *testing.T, svc *Service, equipmentID uint) {
	t.Helper()
	e := reload(t, svc.db, equipmentID)

	var active []models.Assignment
	require.NoError(t, svc.db.Where("equipment_id = ? AND status = ?", equipmentID, models.AssignmentActive).Find(&active).Error)
	require.LessOrEqual(t, len(active), 1, "more than one active assignment")

	if len(active) == 1 {
		assert.Equal(t, models.EquipmentAssigned, e.Status)
		require.NotNil(t, e.AssignedToID)
		assert.Equal(t, active[0].PersonnelID, *e.AssignedToID)
		assert.NotNil(t, e.AssignmentDate)
		return
	}
	assert.NotEqual(t, models.EquipmentAssigned, e.Status)
	assert.Nil(t, e.AssignedToID)
	assert.Nil(t, e.AssignmentDate)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	f := seed(t, svc)
	f.newEquipment(t, svc, "EQ-002")
	_, err := svc.CreateArea(ctx, AreaInput{Name: "Library"})
	require.NoError(t, err)
	_, err = svc.CreateAssignment(ctx, activeInput(f.eq.ID, f.person.ID), "admin")
	require.NoError(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{
		Departments:        1,
		Areas:              1,
		Equipment:          2,
		Personnel:          1,
		AvailableEquipment: 1,
		AssignedEquipment:  1,
		ActiveAssignments:  1,
	}, st)
}
