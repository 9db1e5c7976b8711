// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestLogContextTestSuite(t *testing.T) {
	suite.Run(t, new(LogContextTestSuite))
}

type LogContextTestSuite struct {
	baseLogTestSuite
}

func (s *LogContextTestSuite) TestWithEnvelope() {
	ctx := WithEnvelope(context.TODO(), "envelope1")
	InfoContext(ctx).Msg("TestWithEnvelope")

	s.assertMsg("{\"level\":\"info\",\"envelope\":\"envelope1\",\"message\":\"TestWithEnvelope\"}\n")
}

func (s *LogContextTestSuite) TestWithTrigger() {
	ctx := WithTrigger(context.TODO(), "welcome")
	InfoContext(ctx).Msg("TestWithTrigger")

	s.assertMsg("{\"level\":\"info\",\"trigger\":\"welcome\",\"message\":\"TestWithTrigger\"}\n")
}

func (s *LogContextTestSuite) TestWithOrigin() {
	ctx := WithOrigin(context.TODO(), "origin1")
	InfoContext(ctx).Msg("TestWithOrigin")

	s.assertMsg("{\"level\":\"info\",\"origin\":\"origin1\",\"message\":\"TestWithOrigin\"}\n")
}

func (s *LogContextTestSuite) TestWithAll() {
	ctx := context.TODO()
	ctx = WithEnvelope(ctx, "envelope2")
	ctx = WithTrigger(ctx, "custom")
	ctx = WithOrigin(ctx, "origin2")
	InfoContext(ctx).Msg("TestWithAll")

	s.assertMsg("{\"level\":\"info\"," +
		"\"envelope\":\"envelope2\",\"trigger\":\"custom\",\"origin\":\"origin2\"," +
		"\"message\":\"TestWithAll\"}\n")
}
