package handlers

import (
	"net/http"

	"gymflow/internal/audit"
	"gymflow/internal/middleware"
	"gymflow/internal/services"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService services.MemberService
	audit         *audit.Logger
}

func NewMemberHandler(memberService services.MemberService, auditLog *audit.Logger) *MemberHandler {
	return &MemberHandler{memberService: memberService, audit: auditLog}
}

func memberFilter(c *gin.Context) services.MemberFilter {
	return services.MemberFilter{Status: c.Query("status"), PlanID: c.Query("planId")}
}

func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context(), middleware.TenantID(c), memberFilter(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", members, gin.H{"count": len(members)})
}

func (h *MemberHandler) Search(c *gin.Context) {
	query := c.Query("query")
	members, err := h.memberService.Search(c.Request.Context(), middleware.TenantID(c), query, memberFilter(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", members, gin.H{"count": len(members), "query": nullable(query)})
}

func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.memberService.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", member, nil)
}

func (h *MemberHandler) Create(c *gin.Context) {
	var input services.MemberInput
	if !bind(c, &input) {
		return
	}
	member, err := h.memberService.Create(c.Request.Context(), middleware.TenantID(c), input)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusCreated, "Member created successfully", member, nil)
}

func (h *MemberHandler) Update(c *gin.Context) {
	var patch services.MemberPatch
	if !bind(c, &patch) {
		return
	}
	member, err := h.memberService.Update(c.Request.Context(), middleware.TenantID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Member updated successfully", member, nil)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.memberService.Delete(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Member deleted successfully", gin.H{"id": id}, nil)
}

// nullable maps an empty string to JSON null.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
