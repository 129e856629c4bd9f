package services

import (
	"testing"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnamnesisService_TemplateRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	template, err := env.anamnesis.CreateTemplate(t.Context(), model.TemplateCreateRequest{
		TrainerID:   7,
		Name:        "Ersttermin",
		Description: "Aufnahmebogen für neue Hunde",
		Questions: []model.QuestionInput{
			{QuestionText: "Wie alt ist der Hund?", QuestionType: model.QuestionTypeNumber, Required: true},
			{QuestionText: "Verträgt er Artgenossen?", QuestionType: model.QuestionTypeSingleChoice, Options: []string{"ja", "nein", "unklar"}},
			{QuestionText: "Besonderheiten", QuestionType: model.QuestionTypeText},
		},
	})
	require.NoError(t, err)

	got, err := env.anamnesis.GetTemplate(t.Context(), template.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 3)

	// Question order follows the submitted order.
	assert.Equal(t, 1, got.Questions[0].Position)
	assert.Equal(t, "Wie alt ist der Hund?", got.Questions[0].QuestionText)
	assert.Equal(t, []string{"ja", "nein", "unklar"}, got.Questions[1].Options)
}

func TestAnamnesisService_ChoiceQuestionsNeedOptions(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.anamnesis.CreateTemplate(t.Context(), model.TemplateCreateRequest{
		TrainerID: 7,
		Name:      "Kaputt",
		Questions: []model.QuestionInput{
			{QuestionText: "Auswahl?", QuestionType: model.QuestionTypeMultiChoice, Options: []string{"nur-eine"}},
		},
	})
	assert.Error(t, err)
}

func TestAnamnesisService_SubmitResponse(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	dog := env.dog(t, customer.ID, "Rex")

	template, err := env.anamnesis.CreateTemplate(t.Context(), model.TemplateCreateRequest{
		TrainerID: 7,
		Name:      "Ersttermin",
		Questions: []model.QuestionInput{
			{QuestionText: "Verträglich?", QuestionType: model.QuestionTypeMultiChoice, Options: []string{"Hunde", "Katzen", "Kinder"}},
		},
	})
	require.NoError(t, err)

	response, err := env.anamnesis.SubmitResponse(t.Context(), model.ResponseCreateRequest{
		TemplateID: template.ID,
		DogID:      dog.ID,
		Answers: []model.AnswerInput{
			{QuestionID: template.Questions[0].ID, AnswerOptions: []string{"Hunde", "Kinder"}},
		},
	})
	require.NoError(t, err)

	got, err := env.anamnesis.GetResponse(t.Context(), response.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, []string{"Hunde", "Kinder"}, got.Answers[0].AnswerOptions)

	// Deactivated templates stop accepting submissions.
	require.NoError(t, env.anamnesis.SetTemplateActive(t.Context(), template.ID, false))
	_, err = env.anamnesis.SubmitResponse(t.Context(), model.ResponseCreateRequest{
		TemplateID: template.ID,
		DogID:      dog.ID,
		Answers:    []model.AnswerInput{{QuestionID: template.Questions[0].ID, AnswerText: "x"}},
	})
	assert.ErrorIs(t, err, ErrTemplateInactive)
}

func TestAnamnesisService_UpdateResponse(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	dog := env.dog(t, customer.ID, "Rex")

	template, err := env.anamnesis.CreateTemplate(t.Context(), model.TemplateCreateRequest{
		TrainerID: 7,
		Name:      "Ersttermin",
		Questions: []model.QuestionInput{
			{QuestionText: "Verträglich?", QuestionType: model.QuestionTypeMultiChoice, Options: []string{"Hunde", "Katzen", "Kinder"}},
			{QuestionText: "Besonderheiten", QuestionType: model.QuestionTypeText},
		},
	})
	require.NoError(t, err)

	response, err := env.anamnesis.SubmitResponse(t.Context(), model.ResponseCreateRequest{
		TemplateID: template.ID,
		DogID:      dog.ID,
		Answers: []model.AnswerInput{
			{QuestionID: template.Questions[0].ID, AnswerOptions: []string{"Hunde"}},
		},
	})
	require.NoError(t, err)

	got, err := env.anamnesis.UpdateResponse(t.Context(), response.ID, model.ResponseUpdateRequest{
		Answers: []model.AnswerInput{
			{QuestionID: template.Questions[0].ID, AnswerOptions: []string{"Hunde", "Katzen"}},
			{QuestionID: template.Questions[1].ID, AnswerText: "bellt bei Gewitter"},
		},
	})
	require.NoError(t, err)

	// The old answer set is gone, not merged.
	require.Len(t, got.Answers, 2)
	assert.Equal(t, []string{"Hunde", "Katzen"}, got.Answers[0].AnswerOptions)
	assert.Equal(t, "bellt bei Gewitter", got.Answers[1].AnswerText)
	assert.Equal(t, dog.ID, got.DogID)
	assert.Equal(t, template.ID, got.TemplateID)

	_, err = env.anamnesis.UpdateResponse(t.Context(), response.ID, model.ResponseUpdateRequest{})
	assert.Error(t, err)

	_, err = env.anamnesis.UpdateResponse(t.Context(), 9999, model.ResponseUpdateRequest{
		Answers: []model.AnswerInput{{QuestionID: template.Questions[1].ID, AnswerText: "x"}},
	})
	assert.ErrorIs(t, err, repository.ErrResponseNotFound)
}

func TestAnamnesisService_DeleteResponse(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	dog := env.dog(t, customer.ID, "Rex")

	template, err := env.anamnesis.CreateTemplate(t.Context(), model.TemplateCreateRequest{
		TrainerID: 7,
		Name:      "Ersttermin",
		Questions: []model.QuestionInput{
			{QuestionText: "Besonderheiten", QuestionType: model.QuestionTypeText},
		},
	})
	require.NoError(t, err)

	response, err := env.anamnesis.SubmitResponse(t.Context(), model.ResponseCreateRequest{
		TemplateID: template.ID,
		DogID:      dog.ID,
		Answers:    []model.AnswerInput{{QuestionID: template.Questions[0].ID, AnswerText: "keine"}},
	})
	require.NoError(t, err)

	require.NoError(t, env.anamnesis.DeleteResponse(t.Context(), response.ID))

	_, err = env.anamnesis.GetResponse(t.Context(), response.ID)
	assert.ErrorIs(t, err, repository.ErrResponseNotFound)

	assert.ErrorIs(t, env.anamnesis.DeleteResponse(t.Context(), response.ID), repository.ErrResponseNotFound)
}
