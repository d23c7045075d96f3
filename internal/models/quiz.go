package models

// Quiz is a titled, iconized collection of ordered questions.
type Quiz struct {
	Title     string     `json:"title"`
	Icon      string     `json:"icon"`
	Questions []Question `json:"questions"`
}

// Question is a prompt with four options, one of which equals Answer verbatim.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Dataset is the on-disk shape of the bundled quiz data.
type Dataset struct {
	Quizzes []Quiz `json:"quizzes"`
}
