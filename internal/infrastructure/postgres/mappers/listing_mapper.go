package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainProperty(model *models.PropertyModel) *domain.Listing {
	return &domain.Listing{
		ID:            model.ID,
		Kind:          domain.KindProperty,
		BusinessID:    model.BusinessID,
		AgentID:       model.AgentID,
		Price:         model.Price,
		BasePrice:     model.BasePrice,
		PaidAmount:    model.PaidAmount,
		PriceStart:    model.PriceStart,
		PriceEnd:      model.PriceEnd,
		TotalPrice:    model.TotalPrice,
		PaymentStatus: model.PaymentStatus,
		ListingStatus: model.ListingStatus,
		SoldTo:        model.SoldTo,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMProperty(listing *domain.Listing) *models.PropertyModel {
	return &models.PropertyModel{
		ID:            listing.ID,
		BusinessID:    listing.BusinessID,
		AgentID:       listing.AgentID,
		Price:         listing.Price,
		BasePrice:     listing.BasePrice,
		PaidAmount:    listing.PaidAmount,
		PriceStart:    listing.PriceStart,
		PriceEnd:      listing.PriceEnd,
		TotalPrice:    listing.TotalPrice,
		PaymentStatus: listing.PaymentStatus,
		ListingStatus: listing.ListingStatus,
		SoldTo:        listing.SoldTo,
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
}

func ToDomainSubProperty(model *models.SubPropertyModel) *domain.Listing {
	parentID := model.PropertyID
	return &domain.Listing{
		ID:            model.ID,
		Kind:          domain.KindSubProperty,
		BusinessID:    model.BusinessID,
		AgentID:       model.AgentID,
		ParentID:      &parentID,
		Price:         model.Price,
		PaidAmount:    model.PaidAmount,
		PaymentStatus: model.PaymentStatus,
		ListingStatus: model.ListingStatus,
		SoldTo:        model.SoldTo,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMSubProperty(listing *domain.Listing) *models.SubPropertyModel {
	model := &models.SubPropertyModel{
		ID:            listing.ID,
		BusinessID:    listing.BusinessID,
		AgentID:       listing.AgentID,
		Price:         listing.Price,
		PaidAmount:    listing.PaidAmount,
		PaymentStatus: listing.PaymentStatus,
		ListingStatus: listing.ListingStatus,
		SoldTo:        listing.SoldTo,
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
	if listing.ParentID != nil {
		model.PropertyID = *listing.ParentID
	}
	return model
}
