// Copyright 2025 Bob Matsuoka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/bobmatnyc/mcp-skillkit/core"
)

// MarshalSkill serializes a Skill to bytes.
func MarshalSkill(skill *core.Skill) []byte {
	buf := make([]byte, core.SkillMUS.Size(*skill))
	core.SkillMUS.Marshal(*skill, buf)
	return buf
}

// UnmarshalSkill deserializes a Skill from bytes.
func UnmarshalSkill(data []byte) (*core.Skill, error) {
	skill, _, err := core.SkillMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// MarshalRepository serializes a Repository to bytes.
func MarshalRepository(repo *core.Repository) []byte {
	buf := make([]byte, core.RepositoryMUS.Size(*repo))
	core.RepositoryMUS.Marshal(*repo, buf)
	return buf
}

// UnmarshalRepository deserializes a Repository from bytes.
func UnmarshalRepository(data []byte) (*core.Repository, error) {
	repo, _, err := core.RepositoryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *core.VectorRecord) []byte {
	buf := make([]byte, core.VectorRecordMUS.Size(*record))
	core.VectorRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*core.VectorRecord, error) {
	record, _, err := core.VectorRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
