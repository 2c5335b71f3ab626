package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pewarnaan/internal/infra"
	"pewarnaan/internal/sqlinline"
)

// ProviderRecommender is the integration_tokens key of the chat completion
// endpoint used to recommend thread colors.
const ProviderRecommender = "deepseek"

// Credential is a stored provider token.
type Credential struct {
	Token string
	Model string
}

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Get returns the credential for provider; a missing row yields a zero value.
func (s *Store) Get(ctx context.Context, provider string) (Credential, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectProviderCredential, provider)
	var cred Credential
	if err := row.Scan(&cred.Token, &cred.Model); err != nil {
		if infra.IsNoRows(err) {
			return Credential{}, nil
		}
		return Credential{}, err
	}
	cred.Token = strings.TrimSpace(cred.Token)
	cred.Model = strings.TrimSpace(cred.Model)
	return cred, nil
}

func (s *Store) RecommenderCredential(ctx context.Context) (Credential, error) {
	return s.Get(ctx, ProviderRecommender)
}

// SetRecommenderAPIKey stores the recommender key. model is optional.
func (s *Store) SetRecommenderAPIKey(ctx context.Context, key, model string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("recommender api key is required")
	}
	props := map[string]any{}
	if model = strings.TrimSpace(model); model != "" {
		props["model"] = model
	}
	return s.upsert(ctx, ProviderRecommender, key, props)
}

func (s *Store) Delete(ctx context.Context, provider string) (bool, error) {
	tag, err := s.sql.Exec(ctx, sqlinline.QDeleteProviderCredential, provider)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertProviderCredential, provider, token, raw)
	return err
}
