package services

import (
	"errors"
	"fmt"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/repositories"
)

// Custom Errors surfaced by the menu service.
var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemExists   = errors.New("menu item already exists")
	ErrMenuValidation   = errors.New("menu item validation failed")
)

// --- Menu DTOs ---

// CreateMenuItemRequest DTO
type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Available   *bool   `json:"available"`
}

// UpdateMenuItemRequest is a partial update. Nil fields keep current values.
type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Available   *bool    `json:"available"`
}

// --- MenuService Interface ---

type MenuService interface {
	CreateMenuItem(req CreateMenuItemRequest) (*models.MenuItem, error)
	GetMenuItemByID(itemID int64) (*models.MenuItem, error)
	GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error)
	UpdateMenuItem(itemID int64, req UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteMenuItem(itemID int64) error
}

type menuService struct {
	menuRepo repositories.MenuRepository
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(menuRepo repositories.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) CreateMenuItem(req CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be a positive number", ErrMenuValidation)
	}
	category := req.Category
	if category == "" {
		category = "Uncategorized"
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item := &models.MenuItem{
		Name:        req.Name,
		Category:    category,
		Description: req.Description,
		Price:       req.Price,
		Available:   available,
	}
	if _, err := s.menuRepo.CreateMenuItem(nil, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetMenuItemByID(itemID int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetMenuItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrMenuItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *menuService) GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetMenuItems(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) UpdateMenuItem(itemID int64, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetMenuItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrMenuItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to fetch menu item %d for update: %w", itemID, err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be a positive number", ErrMenuValidation)
		}
		item.Price = *req.Price
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.menuRepo.UpdateMenuItem(nil, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrMenuItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to update menu item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *menuService) DeleteMenuItem(itemID int64) error {
	if err := s.menuRepo.DeleteMenuItem(nil, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrMenuItemNotFound, itemID)
		}
		return fmt.Errorf("failed to delete menu item %d: %w", itemID, err)
	}
	return nil
}
