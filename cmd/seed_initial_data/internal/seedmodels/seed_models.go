package seedmodels

// SeedLesson is one lesson entry in the JSON seed file.
type SeedLesson struct {
	Name     string `json:"name"`
	Abstract string `json:"abstract"`
}

// SeedCourse is one course entry in the JSON seed file.
type SeedCourse struct {
	Name     string       `json:"name"`
	Abstract string       `json:"abstract"`
	Lessons  []SeedLesson `json:"lessons"`
}

// SeedFile is the top level of the JSON seed file.
type SeedFile struct {
	Courses []SeedCourse `json:"courses"`
}
