package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainAgent(model *models.AgentModel) *domain.Agent {
	return &domain.Agent{
		ID:               model.ID,
		ReferredBy:       model.ReferredBy,
		SalesEarnings:    model.SalesEarnings,
		ReferralEarnings: model.ReferralEarnings,
		TotalEarnings:    model.TotalEarnings,
		SalesPortfolio:   model.SalesPortfolio,
		ReferralRewarded: model.ReferralRewarded,
		NINVerified:      model.NINVerified,
		EmailVerified:    model.EmailVerified,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMAgent(agent *domain.Agent) *models.AgentModel {
	return &models.AgentModel{
		ID:               agent.ID,
		ReferredBy:       agent.ReferredBy,
		SalesEarnings:    agent.SalesEarnings,
		ReferralEarnings: agent.ReferralEarnings,
		TotalEarnings:    agent.TotalEarnings,
		SalesPortfolio:   agent.SalesPortfolio,
		ReferralRewarded: agent.ReferralRewarded,
		NINVerified:      agent.NINVerified,
		EmailVerified:    agent.EmailVerified,
		CreatedAt:        agent.CreatedAt,
		UpdatedAt:        agent.UpdatedAt,
	}
}

func ToDomainBusiness(model *models.BusinessModel) *domain.Business {
	return &domain.Business{
		ID:        model.ID,
		Balance:   model.Balance,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
