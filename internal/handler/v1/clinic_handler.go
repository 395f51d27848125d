package v1

import (
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Departments

func (h *Handler) CreateDepartment(c *gin.Context) {
	var cmd department.CreateDepartmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	d, err := h.svc.Departments.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.Departments.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	list, err := h.svc.Departments.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd department.UpdateDepartmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	d, err := h.svc.Departments.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Departments.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *Handler) ListDepartmentRooms(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	rooms, err := h.svc.Departments.ListRooms(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rooms)
}

// Rooms

func (h *Handler) CreateRoom(c *gin.Context) {
	var cmd room.CreateRoomCommand
	if !bindJSON(c, &cmd) {
		return
	}
	r, err := h.svc.Rooms.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, r)
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.Rooms.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

// ListRooms narrows to one department when department_id is given.
func (h *Handler) ListRooms(c *gin.Context) {
	deptID, ok := parseQueryUUID(c, "department_id")
	if !ok {
		return
	}
	var (
		rooms []*room.Room
		err   error
	)
	if deptID != nil {
		rooms, err = h.svc.Rooms.ListByDepartment(c.Request.Context(), *deptID, middleware.Caller(c))
	} else {
		rooms, err = h.svc.Rooms.List(c.Request.Context(), middleware.Caller(c))
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rooms)
}

func (h *Handler) RoomAvailability(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	available, err := h.svc.Rooms.CheckAvailability(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"room_id": id, "available": available})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd room.UpdateRoomCommand
	if !bindJSON(c, &cmd) {
		return
	}
	r, err := h.svc.Rooms.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Rooms.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

// Doctors

func (h *Handler) CreateDoctor(c *gin.Context) {
	var cmd doctor.CreateDoctorCommand
	if !bindJSON(c, &cmd) {
		return
	}
	d, err := h.svc.Doctors.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.Doctors.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) GetMyDoctorProfile(c *gin.Context) {
	caller := middleware.Caller(c)
	d, err := h.svc.Doctors.GetByUserID(c.Request.Context(), caller.UserID, caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	list, err := h.svc.Doctors.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd doctor.UpdateDoctorCommand
	if !bindJSON(c, &cmd) {
		return
	}
	d, err := h.svc.Doctors.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Doctors.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *Handler) AssignDoctorDepartment(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	deptID, ok := parseUUID(c, "departmentId")
	if !ok {
		return
	}
	if err := h.svc.Doctors.AssignDepartment(c.Request.Context(), doctorID, deptID, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"doctor_id": doctorID, "department_id": deptID})
}

func (h *Handler) UnassignDoctorDepartment(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	deptID, ok := parseUUID(c, "departmentId")
	if !ok {
		return
	}
	if err := h.svc.Doctors.UnassignDepartment(c.Request.Context(), doctorID, deptID, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

// Nurses

func (h *Handler) CreateNurse(c *gin.Context) {
	var cmd nurse.CreateNurseCommand
	if !bindJSON(c, &cmd) {
		return
	}
	n, err := h.svc.Nurses.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, n)
}

func (h *Handler) GetNurse(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.Nurses.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, n)
}

func (h *Handler) GetMyNurseProfile(c *gin.Context) {
	caller := middleware.Caller(c)
	n, err := h.svc.Nurses.GetByUserID(c.Request.Context(), caller.UserID, caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, n)
}

func (h *Handler) ListNurses(c *gin.Context) {
	list, err := h.svc.Nurses.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) UpdateNurse(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd nurse.UpdateNurseCommand
	if !bindJSON(c, &cmd) {
		return
	}
	n, err := h.svc.Nurses.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, n)
}

func (h *Handler) DeleteNurse(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Nurses.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}
