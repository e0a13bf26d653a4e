/*
Package ports defines the driven ports (interfaces) for the groundwork
provisioning engine.

These interfaces decouple the pipeline from external implementations, allowing
the engine to work with different journal backends, lock providers, and install
strategies.

# Key Interfaces

  - Step: A single reconciling unit of provisioning work.
  - Installer: A dependency-install strategy (source build, conda, remote API).
  - RunJournal: Persists and loads run reports.
  - Locker: Guards against concurrent provisioning runs on the same host.
*/
package ports
