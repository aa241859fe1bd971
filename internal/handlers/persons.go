// persons.go
//
// Person registry routes.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/services"
	"gorm.io/gorm"
)

// PersonsHandler handles person routes
type PersonsHandler struct {
	DB *gorm.DB
}

// ListPersons handles GET /api/v1/persons
// @Summary List persons
// @Description Get all persons with their medication counts
// @Tags Persons
// @Accept json
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} services.PersonWithStats
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /persons [get]
func (h *PersonsHandler) ListPersons(c *fiber.Ctx) error {
	skip, limit := parseSkipLimit(c)

	persons, err := services.ListPersons(h.DB, skip, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(persons)
}

// GetPerson handles GET /api/v1/persons/:id
// @Summary Get a person
// @Description Get one person with their medication count
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} services.PersonWithStats
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /persons/{id} [get]
func (h *PersonsHandler) GetPerson(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	person, err := services.GetPerson(h.DB, id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(person)
}

// CreatePerson handles POST /api/v1/persons
// @Summary Create a person
// @Description Create a person; the first person becomes the default
// @Tags Persons
// @Accept json
// @Produce json
// @Param person body services.PersonInput true "Person fields"
// @Success 201 {object} models.Person
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /persons [post]
func (h *PersonsHandler) CreatePerson(c *fiber.Ctx) error {
	var input services.PersonInput
	if err := c.BodyParser(&input); err != nil {
		return serviceError(c, invalidBodyError())
	}

	person, err := services.CreatePerson(h.DB, input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(person)
}

// UpdatePerson handles PUT /api/v1/persons/:id
// @Summary Update a person
// @Description Update the supplied person fields
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Param person body services.PersonUpdateInput true "Fields to update"
// @Success 200 {object} models.Person
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /persons/{id} [put]
func (h *PersonsHandler) UpdatePerson(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	var input services.PersonUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return serviceError(c, invalidBodyError())
	}

	person, err := services.UpdatePerson(h.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(person)
}

// DeletePerson handles DELETE /api/v1/persons/:id
// @Summary Delete a person
// @Description Delete a person with their medications and dose history
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /persons/{id} [delete]
func (h *PersonsHandler) DeletePerson(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeletePerson(h.DB, id); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetDefaultPerson handles PUT /api/v1/persons/:id/set-default
// @Summary Set the default person
// @Description Flag one person as default, clearing any previous default
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} models.Person
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /persons/{id}/set-default [put]
func (h *PersonsHandler) SetDefaultPerson(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	person, err := services.SetDefaultPerson(h.DB, id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(person)
}
