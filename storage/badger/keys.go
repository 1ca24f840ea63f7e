package badger

import "fmt"

// Key prefixes for different data types
const (
	skillRecordPrefix      = "sklrec"
	skillRepoPrefix        = "sklrepo"
	skillCategoryPrefix    = "sklcat"
	repositoryRecordPrefix = "reporec"
	vectorRecordPrefix     = "vecrec"
)

// makeSkillKey generates a key for a skill by Id.
func makeSkillKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", skillRecordPrefix, id))
}

// makeSkillRepoKey generates a composite key for the repository index.
// Format: prefix:repoId:skillId
func makeSkillRepoKey(repoId, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", skillRepoPrefix, repoId, id))
}

// makePartialSkillRepoKey generates a partial key for repository scans.
func makePartialSkillRepoKey(repoId string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", skillRepoPrefix, repoId))
}

// makeSkillCategoryKey generates a composite key for the category index.
// Format: prefix:category:skillId
func makeSkillCategoryKey(category, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", skillCategoryPrefix, category, id))
}

// makeRepositoryKey generates a key for a repository record by Id.
func makeRepositoryKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", repositoryRecordPrefix, id))
}

// makeVectorKey generates a key for a vector record by skill Id.
func makeVectorKey(skillId string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorRecordPrefix, skillId))
}
