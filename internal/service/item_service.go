package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/ws"
	"go-stonestock-ws/pkg/validator"
)

type ItemService interface {
	Create(actor model.Actor, item *model.Item) error
	Update(actor model.Actor, id uuid.UUID, item *model.Item) (*model.Item, error)
	List(actor model.Actor, search, category string) ([]model.Item, error)
	Get(actor model.Actor, id uuid.UUID) (*model.Item, error)
	GetBySKU(actor model.Actor, sku string) (*model.Item, error)
	Delete(actor model.Actor, id uuid.UUID) error
}

type itemService struct {
	itemRepo repository.ItemRepository
	wsHub    *ws.Hub
}

func NewItemService(itemRepo repository.ItemRepository, wsHub *ws.Hub) ItemService {
	return &itemService{itemRepo: itemRepo, wsHub: wsHub}
}

func (s *itemService) Create(actor model.Actor, item *model.Item) error {
	if !actor.Can("item:create") {
		return ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(item)); err != nil {
		return err
	}
	if !item.Category.Valid() {
		return fmt.Errorf("invalid category %q", item.Category)
	}
	if strings.TrimSpace(item.SKU) == "" {
		return fmt.Errorf("sku is required")
	}

	item.CreatedBy = actor.Username
	item.UpdatedBy = actor.Username
	item.IsActive = true
	if err := s.itemRepo.Create(item); err != nil {
		return err
	}

	s.wsHub.PublishStockUpdate("item_created", item.SKU, item.Name, actor.Username,
		fmt.Sprintf("%s created item '%s'", actor.Username, item.Name))
	return nil
}

func (s *itemService) Update(actor model.Actor, id uuid.UUID, item *model.Item) (*model.Item, error) {
	if !actor.Can("item:update") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(item)); err != nil {
		return nil, err
	}
	if !item.Category.Valid() {
		return nil, fmt.Errorf("invalid category %q", item.Category)
	}

	existing, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.SKU = item.SKU
	existing.Name = item.Name
	existing.Category = item.Category
	existing.UnitPrimary = item.UnitPrimary
	existing.UnitSecondary = item.UnitSecondary
	existing.SqftPerUnit = item.SqftPerUnit
	existing.Material = item.Material
	existing.Thickness = item.Thickness
	existing.Finish = item.Finish
	existing.UpdatedBy = actor.Username
	if err := s.itemRepo.Update(existing); err != nil {
		return nil, err
	}

	s.wsHub.PublishStockUpdate("item_updated", existing.SKU, existing.Name, actor.Username,
		fmt.Sprintf("%s updated item '%s'", actor.Username, existing.Name))
	return existing, nil
}

func (s *itemService) List(actor model.Actor, search, category string) ([]model.Item, error) {
	if !actor.Can("item:view") {
		return nil, ErrPermissionDenied
	}
	if search == "" {
		return s.itemRepo.FindAll(category)
	}
	return s.itemRepo.Search(search, category)
}

func (s *itemService) Get(actor model.Actor, id uuid.UUID) (*model.Item, error) {
	if !actor.Can("item:view") {
		return nil, ErrPermissionDenied
	}
	return s.itemRepo.FindByID(id)
}

func (s *itemService) GetBySKU(actor model.Actor, sku string) (*model.Item, error) {
	if !actor.Can("item:view") {
		return nil, ErrPermissionDenied
	}
	return s.itemRepo.FindBySKU(sku)
}

// Delete deactivates the item; ledger history stays intact.
func (s *itemService) Delete(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("item:delete") {
		return ErrPermissionDenied
	}
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.itemRepo.SoftDelete(id, actor.Username); err != nil {
		return err
	}

	s.wsHub.PublishStockUpdate("item_deleted", item.SKU, item.Name, actor.Username,
		fmt.Sprintf("%s deleted item '%s'", actor.Username, item.Name))
	return nil
}
