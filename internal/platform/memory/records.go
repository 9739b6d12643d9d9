package memory

import (
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
)

var (
	_ store.RecordStore[domain.Medication]     = (*Collection[domain.Medication])(nil)
	_ store.RecordStore[domain.ScheduleItem]   = (*Collection[domain.ScheduleItem])(nil)
	_ store.RecordStore[domain.WalkingRoute]   = (*Collection[domain.WalkingRoute])(nil)
	_ store.RecordStore[domain.FamilyPhoto]    = (*Collection[domain.FamilyPhoto])(nil)
	_ store.RecordStore[domain.GameDefinition] = (*Collection[domain.GameDefinition])(nil)
)

// Store is the process-lifetime data store: the users and one collection per
// record kind. Hosts construct one at startup and inject it into the facade.
type Store struct {
	Users           *UserStore
	Medications     *Collection[domain.Medication]
	Schedule        *Collection[domain.ScheduleItem]
	Routes          *Collection[domain.WalkingRoute]
	Photos          *Collection[domain.FamilyPhoto]
	GameDefinitions *Collection[domain.GameDefinition]
}

// New creates an empty Store. The options apply to every collection.
func New(opts ...Option) *Store {
	return &Store{
		Users:           NewUserStore(opts...),
		Medications:     NewCollection[domain.Medication](opts...),
		Schedule:        NewCollection[domain.ScheduleItem](opts...),
		Routes:          NewCollection[domain.WalkingRoute](opts...),
		Photos:          NewCollection[domain.FamilyPhoto](opts...),
		GameDefinitions: NewCollection[domain.GameDefinition](opts...),
	}
}
