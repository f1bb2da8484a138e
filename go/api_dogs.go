package dogshouseserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/oapi-codegen/runtime"

	dogmapper "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/http/mapper"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

// MessageDogDataRequired answers create and update requests without a body.
const MessageDogDataRequired = "Dog data is required."

// DogsAPI wires HTTP transport with the dogs service and the creation workflow.
type DogsAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewDogsAPI creates a DogsAPI. A nil orchestrator creates dogs through the service directly.
func NewDogsAPI(service ports.Service, workflows ports.WorkflowOrchestrator) DogsAPI {
	return DogsAPI{service: service, workflows: workflows}
}

// Get /dogs
// Lists dogs sorted by attribute and order, optionally paged
func (api *DogsAPI) GetDogs(c *gin.Context) {
	attribute, err := domain.ParseSortBy(c.Query("attribute"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	query := ports.SortQuery{
		Attribute: attribute,
		Order:     domain.ParseOrder(c.DefaultQuery("order", string(domain.OrderAsc))),
	}
	params := c.Request.URL.Query()
	for _, name := range []string{"pageNumber", "pageSize"} {
		if strings.TrimSpace(params.Get(name)) == "" {
			params.Del(name)
		}
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageNumber", params, &query.Page.Number); err != nil {
		_ = c.Error(apierrors.Wrap(apierrors.KindValidation, err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", params, &query.Page.Size); err != nil {
		_ = c.Error(apierrors.Wrap(apierrors.KindValidation, err))
		return
	}
	dogs, err := api.service.GetAllSorted(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromModels(dogs))
}

// Get /dogs/:name
// Finds a dog by name
func (api *DogsAPI) GetDog(c *gin.Context) {
	name := c.Param("name")
	dog, err := api.service.GetByID(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if dog == nil {
		apierrors.RespondMessage(c, http.StatusNotFound, fmt.Sprintf("Dog with name '%s' not found.", name))
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromModel(*dog))
}

// Post /dog
// Creates a dog. Validation and duplicate name failures answer 400.
func (api *DogsAPI) CreateDog(c *gin.Context) {
	payload, ok := bindDog[dogmapper.CreateDog](c)
	if !ok {
		return
	}
	created, err := api.createDog(c, dogmapper.ToModelFromCreate(*payload))
	if err != nil {
		if kind := apierrors.KindOf(err); kind == apierrors.KindValidation || kind == apierrors.KindConflict {
			apierrors.RespondMessage(c, http.StatusBadRequest, err.Error())
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromModel(created))
}

func (api *DogsAPI) createDog(c *gin.Context, dog domain.Dog) (domain.Dog, error) {
	if api.workflows != nil {
		return api.workflows.CreateDog(c.Request.Context(), dog)
	}
	return api.service.Add(c.Request.Context(), dog)
}

// Post /dog/update
// Overwrites an existing dog. Validation and missing dog failures both answer 404.
func (api *DogsAPI) UpdateDog(c *gin.Context) {
	payload, ok := bindDog[dogmapper.UpdateDog](c)
	if !ok {
		return
	}
	updated, err := api.service.Update(c.Request.Context(), dogmapper.ToModelFromUpdate(*payload))
	if err != nil {
		if kind := apierrors.KindOf(err); kind == apierrors.KindValidation || kind == apierrors.KindNotFound {
			apierrors.RespondMessage(c, http.StatusNotFound, err.Error())
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromModel(updated))
}

// Delete /dog/:name
// Deletes a dog by name
func (api *DogsAPI) DeleteDog(c *gin.Context) {
	// Gin has already unescaped the segment; unescaping again would change names containing '%'.
	name := c.Param("name")
	if err := api.service.Delete(c.Request.Context(), name); err != nil {
		if apierrors.IsKind(err, apierrors.KindNotFound) {
			apierrors.RespondMessage(c, http.StatusNotFound, err.Error())
			return
		}
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// bindDog decodes a JSON body. An empty or null body is answered with 400 and ok=false.
func bindDog[T any](c *gin.Context) (*T, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		apierrors.RespondMessage(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		apierrors.RespondMessage(c, http.StatusBadRequest, MessageDogDataRequired)
		return nil, false
	}
	var payload T
	if err := binding.JSON.BindBody(raw, &payload); err != nil {
		apierrors.RespondMessage(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &payload, true
}
