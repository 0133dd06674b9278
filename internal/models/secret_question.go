package models

// SecretQuestion is one of the recovery challenges offered at registration.
type SecretQuestion string

const (
	SecretQuestionSchoolNumber SecretQuestion = "School_Number"
	SecretQuestionDogsName     SecretQuestion = "Dogs_Name"
)

// SecretQuestions lists the questions in the order the registration form offers them.
var SecretQuestions = []SecretQuestion{
	SecretQuestionSchoolNumber,
	SecretQuestionDogsName,
}

// Valid reports whether q is one of the offered questions.
func (q SecretQuestion) Valid() bool {
	for _, known := range SecretQuestions {
		if q == known {
			return true
		}
	}
	return false
}
