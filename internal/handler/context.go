package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	WorkerInfoCtx   ContextKey = "workerInfo"
	TaskCtx         ContextKey = "task"
	LeaveRequestCtx ContextKey = "leaveRequest"
	NoteCtx         ContextKey = "note"
)
