package script

// ObjectID identifies a host or script-created object. 0 is the nil
// object id; a destroyed id is never reused within a Context's lifetime.
type ObjectID uint32

// NilObjectID is the sentinel "no object" id.
const NilObjectID ObjectID = 0

// ScheduleID identifies a pending scheduler event, returned by Schedule and
// accepted by Cancel.
type ScheduleID uint64
