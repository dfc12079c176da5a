package models_test

import (
	"testing"

	"room-rental-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStatusColorOf(t *testing.T) {
	t.Run("maps each status to its color", func(t *testing.T) {
		assert.Equal(t, models.ColorOccupied, models.StatusColorOf(models.StatusOccupied))
		assert.Equal(t, models.ColorVacant, models.StatusColorOf(models.StatusVacant))
		assert.Equal(t, models.ColorMaintenance, models.StatusColorOf(models.StatusMaintenance))
	})

	t.Run("unknown status falls back to vacant color", func(t *testing.T) {
		assert.Equal(t, models.ColorVacant, models.StatusColorOf("something else"))
		assert.Equal(t, models.ColorVacant, models.StatusColorOf(""))
	})
}

func TestStatusIconOf(t *testing.T) {
	assert.Equal(t, models.IconHome, models.StatusIconOf(models.StatusOccupied))
	assert.Equal(t, models.IconHomeOutlined, models.StatusIconOf(models.StatusVacant))
	assert.Equal(t, models.IconBuild, models.StatusIconOf(models.StatusMaintenance))
}

func TestEnsurePresentation(t *testing.T) {
	t.Run("fills missing color and icon from status", func(t *testing.T) {
		room := models.Room{Status: models.StatusOccupied}
		room.EnsurePresentation()

		assert.Equal(t, models.ColorOccupied, room.Color)
		assert.Equal(t, models.IconHome, room.Icon)
	})

	t.Run("keeps explicit color and icon", func(t *testing.T) {
		room := models.Room{Status: models.StatusVacant, Color: "#123456", Icon: "custom"}
		room.EnsurePresentation()

		assert.Equal(t, "#123456", room.Color)
		assert.Equal(t, "custom", room.Icon)
	})
}

func TestRoomPatchApply(t *testing.T) {
	t.Run("applies only set fields", func(t *testing.T) {
		room := models.Room{
			ID:     "102",
			Name:   "Phòng 102",
			Status: models.StatusVacant,
			Price:  "3.200.000 VND/tháng",
		}

		on := true
		patch := models.RoomPatch{LightOn: &on}
		patch.Apply(&room)

		assert.True(t, room.LightOn)
		assert.Equal(t, "Phòng 102", room.Name)
		assert.Equal(t, models.StatusVacant, room.Status)
		assert.Equal(t, "3.200.000 VND/tháng", room.Price)
	})

	t.Run("leaves occupant untouched when absent from the patch", func(t *testing.T) {
		occupant := "Trần Thị B"
		room := models.Room{Occupant: &occupant}

		status := models.StatusVacant
		patch := models.RoomPatch{Status: &status}
		patch.Apply(&room)

		assert.NotNil(t, room.Occupant)
	})
}

func TestRoomPatchIsEmpty(t *testing.T) {
	assert.True(t, models.RoomPatch{}.IsEmpty())

	on := true
	assert.False(t, models.RoomPatch{FanOn: &on}.IsEmpty())
}

func TestDemoRooms(t *testing.T) {
	rooms := models.DemoRooms()

	assert.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].ID)
	assert.Equal(t, "102", rooms[1].ID)

	for _, room := range rooms {
		assert.NotEmpty(t, room.Color, "room %s must have a color", room.ID)
		assert.NotEmpty(t, room.Icon, "room %s must have an icon", room.ID)
		assert.Equal(t, models.StatusColorOf(room.Status), room.Color)
	}
}
