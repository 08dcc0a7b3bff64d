package mongo

import (
	"testing"
	"time"

	"ginhawa/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSeedRooms(t *testing.T) {
	rooms := SeedRooms(time.Now())
	require.Len(t, rooms, 30)

	counts := map[model.RoomType]int{}
	for _, r := range rooms {
		counts[r.Type]++
		assert.Equal(t, model.RoomAvailable, r.Status)
	}
	assert.Equal(t, 15, counts[model.RoomStandard])
	assert.Equal(t, 10, counts[model.RoomDeluxe])
	assert.Equal(t, 5, counts[model.RoomSuite])

	assert.Equal(t, 101, rooms[0].Number)
	assert.Equal(t, model.RoomDeluxe, rooms[15].Type)
	assert.Equal(t, 116, rooms[15].Number)
	assert.Equal(t, 130, rooms[29].Number)
	assert.Equal(t, int64(7000), rooms[29].Price)
}

func TestStaffEmail(t *testing.T) {
	assert.Equal(t, "frontoffice@hotel.com", StaffEmail(model.DepartmentFrontOffice))
	assert.Equal(t, "roomfacilities@hotel.com", StaffEmail(model.DepartmentRoomFacilities))
	assert.Equal(t, "manager@hotel.com", StaffEmail(model.DepartmentManager))
}

func TestCollections_UniqueKeys(t *testing.T) {
	unique := map[string][]string{}
	for _, c := range Collections {
		for _, idx := range c.Indexes {
			if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
				continue
			}
			var keys []string
			for _, k := range idx.Keys.(bson.D) {
				keys = append(keys, k.Key)
			}
			unique[c.Name] = append(unique[c.Name], keys...)
		}
	}

	assert.ElementsMatch(t, []string{"number"}, unique["Rooms"])
	assert.ElementsMatch(t, []string{"reference", "source", "source_id"}, unique["Invoices"])
	assert.ElementsMatch(t, []string{"email"}, unique["Staff"])
	assert.Contains(t, unique["Bookings"], "reference")
}

func TestCollections_LocksExpire(t *testing.T) {
	var locks *Collection
	for i := range Collections {
		if Collections[i].Name == "Locks" {
			locks = &Collections[i]
		}
	}
	require.NotNil(t, locks)
	require.Len(t, locks.Indexes, 1)
	require.NotNil(t, locks.Indexes[0].Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *locks.Indexes[0].Options.ExpireAfterSeconds)
}
