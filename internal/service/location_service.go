package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
)

type LocationService interface {
	List(actor model.Actor) ([]model.Location, error)
	Create(actor model.Actor, name string) (*model.Location, error)
	Deactivate(actor model.Actor, id uuid.UUID) error
}

type locationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) List(actor model.Actor) ([]model.Location, error) {
	// Every authenticated user can list locations; pickers need them.
	return s.locationRepo.FindAllActive()
}

func (s *locationService) Create(actor model.Actor, name string) (*model.Location, error) {
	if !actor.Can("location:manage") {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("location name is required")
	}
	if existing, err := s.locationRepo.FindByName(name); err == nil && existing != nil {
		return nil, fmt.Errorf("location %q already exists", name)
	}

	loc := &model.Location{Name: name, IsActive: true}
	loc.CreatedBy = actor.Username
	loc.UpdatedBy = actor.Username
	if err := s.locationRepo.Create(loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *locationService) Deactivate(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("location:manage") {
		return ErrPermissionDenied
	}
	if _, err := s.locationRepo.FindByID(id); err != nil {
		return err
	}
	return s.locationRepo.Deactivate(id, actor.Username)
}
